package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"logician/pkg/roles"

	"github.com/bwmarrin/discordgo"
)

const guildOnlyMessage = "This command only works in a server."

func handleTypeCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	h.reconcileCommand(s, i, roles.CategoryType, stringOption(i, optionType))
}

func handleColorCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	h.reconcileCommand(s, i, roles.CategoryColor, stringOption(i, optionColor))
}

// reconcileCommand validates input before touching the directory, then
// acknowledges the interaction and reports the reconciliation outcome.
func (h *Handler) reconcileCommand(s Session, i *discordgo.InteractionCreate, category roles.Category, input string) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		respond(s, i, guildOnlyMessage)
		return
	}

	resolved, err := roles.Resolve(h.colors, category, input)
	if err != nil {
		respond(s, i, outcomeMessage(category, roles.Resolved{Display: input}, roles.Outcome{}, err))
		return
	}

	if err := deferResponse(s, i); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	outcome, err := h.reconciler.Reconcile(ctx, roles.Request{
		GuildID:  i.GuildID,
		MemberID: i.Member.User.ID,
		Category: category,
		Value:    resolved.Value,
	})
	if err != nil {
		log.Printf("Error setting %s to %s for %s in guild %s: %v", category, resolved.Value, i.Member.User.ID, i.GuildID, err)
	}

	editResponse(s, i, outcomeMessage(category, resolved, outcome, err))
}

func handleNoColorCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		respond(s, i, guildOnlyMessage)
		return
	}

	if err := deferResponse(s, i); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	removed, err := h.reconciler.Clear(ctx, i.GuildID, i.Member.User.ID, roles.CategoryColor)
	switch {
	case err != nil:
		log.Printf("Error clearing color roles for %s in guild %s: %v", i.Member.User.ID, i.GuildID, err)
		editResponse(s, i, directoryFailureMessage(err))
	case len(removed) == 0:
		editResponse(s, i, "You don't have a color role.")
	default:
		editResponse(s, i, "Removing color role(s).")
	}
}

// outcomeMessage is the reply shown to the member for a type or color request.
func outcomeMessage(category roles.Category, resolved roles.Resolved, outcome roles.Outcome, err error) string {
	if err == nil {
		if outcome.Status == roles.StatusRemoved {
			return "Removing MBTI type role."
		}
		if category == roles.CategoryColor && resolved.FromTable {
			return fmt.Sprintf("Setting color to %s (%s).", resolved.Display, resolved.Value)
		}
		return fmt.Sprintf("Setting %s to %s.", category, resolved.Value)
	}

	switch {
	case errors.Is(err, roles.ErrUnknownColor):
		return fmt.Sprintf("Sorry, I don't know what color %s is.", resolved.Display)
	case errors.Is(err, roles.ErrUnknownType):
		return fmt.Sprintf("Sorry, %s isn't an MBTI type.", resolved.Display)
	case errors.Is(err, roles.ErrRoleNotConfigured):
		return "Sorry, we don't have that MBTI role."
	case errors.Is(err, roles.ErrPositionNotConfigured):
		return "Sorry, color roles aren't set up for this server yet."
	default:
		return directoryFailureMessage(err)
	}
}

func directoryFailureMessage(err error) string {
	var dirErr *roles.DirectoryError
	if errors.As(err, &dirErr) {
		return fmt.Sprintf("Sorry, I couldn't update your roles (%s failed). Please try again.", dirErr.Step)
	}
	return "Sorry, something went wrong updating your roles. Please try again."
}
