package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"logician/pkg/completion"

	"github.com/bwmarrin/discordgo"
)

func handlePromptCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	prompt := stringOption(i, optionPrompt)

	if h.completer == nil {
		respond(s, i, "Sorry, text generation isn't available right now.")
		return
	}

	respond(s, i, "Let me think...")

	if !h.completer.Allowed(prompt) {
		editResponse(s, i, forbiddenMessage(prompt))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	text, err := h.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("Error generating response for %q: %v", prompt, err)
		if errors.Is(err, completion.ErrForbidden) {
			editResponse(s, i, forbiddenMessage(prompt))
			return
		}
		editResponse(s, i, fmt.Sprintf("Sorry, I couldn't create a response to %q.", prompt))
		return
	}

	editResponse(s, i, fmt.Sprintf("**[%s]** %s", prompt, text))
}

func forbiddenMessage(prompt string) string {
	return fmt.Sprintf("I am not legally allowed to generate a response for prompt **[%s]**.", prompt)
}
