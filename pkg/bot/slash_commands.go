package bot

import (
	"log"

	"logician/pkg/config"
	"logician/pkg/roles"

	"github.com/bwmarrin/discordgo"
)

const (
	optionType   = "mbti_type"
	optionColor  = "color"
	optionURL    = "url"
	optionPhrase = "phrase"
	optionPrompt = "prompt"
)

// TypeCommands are registered on the guilds listed under type_guilds.
var TypeCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "type",
		Description: "Sets or removes your MBTI type role.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionType,
				Description: "Your MBTI type (or none)",
				Required:    true,
				Choices:     typeChoices(),
			},
		},
	},
}

// ColorCommands are registered on the guilds listed under color_guilds.
var ColorCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "color",
		Description: "Set your color role.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionColor,
				Description: "The name of your desired color, or a hex code starting with #",
				Required:    true,
			},
		},
	},
	{
		Name:        "nocolor",
		Description: "Remove your color role.",
	},
	{
		Name:        "petpet",
		Description: "Generate a petpet .gif from an image.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionURL,
				Description: "URL where the image is located.",
				Required:    true,
			},
		},
	},
	{
		Name:        "propaganda",
		Description: "Generate a \"you are not immune to\" meme with the given phrase.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionPhrase,
				Description: "Phrase to insert into the image",
				Required:    true,
			},
		},
	},
	{
		Name:        "prompt",
		Description: "Generate some text to respond to the given prompt with a language model.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionPrompt,
				Description: "Prompt for text generation.",
				Required:    true,
			},
		},
	},
}

// SlashCommandHandlers maps command names to their handler functions
var SlashCommandHandlers = map[string]func(h *Handler, s Session, i *discordgo.InteractionCreate){
	"type":       handleTypeCommand,
	"color":      handleColorCommand,
	"nocolor":    handleNoColorCommand,
	"petpet":     handlePetpetCommand,
	"propaganda": handlePropagandaCommand,
	"prompt":     handlePromptCommand,
}

func typeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(roles.TypeLabels))
	for _, label := range roles.TypeLabels {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: label, Value: label})
	}
	return choices
}

// InteractionCreate handles all slash command interactions
func (h *Handler) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.handleInteraction(s, i)
}

func (h *Handler) handleInteraction(s Session, i *discordgo.InteractionCreate) {
	// Only handle application commands (slash commands)
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	commandName := i.ApplicationCommandData().Name

	handler, ok := SlashCommandHandlers[commandName]
	if !ok {
		log.Printf("Unknown slash command: %s", commandName)
		return
	}

	userID, userName, _ := getUserFromInteraction(i)
	log.Printf("Command /%s from %s (%s) in guild %s", commandName, userName, userID, i.GuildID)
	handler(h, s, i)
}

// RegisteredCommand remembers where a command was registered so it can be
// removed again on shutdown.
type RegisteredCommand struct {
	GuildID string
	Command *discordgo.ApplicationCommand
}

// RegisterSlashCommands registers TypeCommands on every type guild and
// ColorCommands on every color guild.
func RegisterSlashCommands(s CommandRegistrar, appID string, cfg *config.Config) ([]RegisteredCommand, error) {
	log.Println("Registering slash commands...")

	var registered []RegisteredCommand
	scopes := []struct {
		guilds   []string
		commands []*discordgo.ApplicationCommand
	}{
		{guilds: cfg.TypeGuilds, commands: TypeCommands},
		{guilds: cfg.ColorGuilds, commands: ColorCommands},
	}

	for _, scope := range scopes {
		for _, guildID := range scope.guilds {
			for _, cmd := range scope.commands {
				registeredCmd, err := s.ApplicationCommandCreate(appID, guildID, cmd)
				if err != nil {
					log.Printf("Cannot create '%s' command in guild %s: %v", cmd.Name, guildID, err)
					return registered, err
				}
				registered = append(registered, RegisteredCommand{GuildID: guildID, Command: registeredCmd})
				log.Printf("Registered command: %s (guild %s)", cmd.Name, guildID)
			}
		}
	}

	return registered, nil
}

// UnregisterSlashCommands removes all registered slash commands
func UnregisterSlashCommands(s CommandRegistrar, appID string, commands []RegisteredCommand) error {
	log.Println("Unregistering slash commands...")

	for _, rc := range commands {
		err := s.ApplicationCommandDelete(appID, rc.GuildID, rc.Command.ID)
		if err != nil {
			log.Printf("Cannot delete '%s' command: %v", rc.Command.Name, err)
			return err
		}
		log.Printf("Unregistered command: %s (guild %s)", rc.Command.Name, rc.GuildID)
	}

	return nil
}
