package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// getUserFromInteraction extracts the user ID and name from an interaction
// It handles both guild (Member) and DM (User) contexts
// Returns userID, userName, and error if user cannot be determined
func getUserFromInteraction(i *discordgo.InteractionCreate) (string, string, error) {
	if i.Member != nil && i.Member.User != nil {
		userName := i.Member.User.Username
		if i.Member.User.GlobalName != "" {
			userName = i.Member.User.GlobalName
		}
		return i.Member.User.ID, userName, nil
	}

	if i.User != nil {
		userName := i.User.Username
		if i.User.GlobalName != "" {
			userName = i.User.GlobalName
		}
		return i.User.ID, userName, nil
	}

	return "", "", fmt.Errorf("could not determine user from interaction")
}

// stringOption returns the named string option of a slash command.
func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// respond sends content as the immediate reply to an interaction.
func respond(s Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Printf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

// deferResponse acknowledges an interaction whose reply comes later via
// editResponse.
func deferResponse(s Session, i *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("Error deferring %s command: %v", i.ApplicationCommandData().Name, err)
	}
	return err
}

func editResponse(s Session, i *discordgo.InteractionCreate, content string, files ...*discordgo.File) {
	edit := &discordgo.WebhookEdit{Content: &content}
	if len(files) > 0 {
		edit.Files = files
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Printf("Error editing %s response: %v", i.ApplicationCommandData().Name, err)
	}
}
