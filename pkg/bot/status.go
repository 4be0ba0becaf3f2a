package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// PresenceUpdater is the part of discordgo.Session used to set the bot's status.
type PresenceUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

// presenceText advertises the commands available in each kind of guild.
func presenceText(typeGuilds, colorGuilds int) string {
	switch {
	case typeGuilds > 0 && colorGuilds > 0:
		return "/type and /color"
	case typeGuilds > 0:
		return "/type"
	case colorGuilds > 0:
		return "/color"
	default:
		return "nothing yet"
	}
}

// Ready sets the bot's presence once the gateway session is up.
func (h *Handler) Ready(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Logged in as %s#%s", r.User.Username, r.User.Discriminator)
	h.updatePresence(s)
}

func (h *Handler) updatePresence(s PresenceUpdater) {
	err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: presenceText(len(h.cfg.TypeGuilds), len(h.cfg.ColorGuilds)),
				Type: discordgo.ActivityTypeWatching,
			},
		},
		Status: "online",
		AFK:    false,
	})
	if err != nil {
		log.Printf("Error updating status: %v", err)
	}
}
