package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"logician/pkg/cache"
	"logician/pkg/media"

	"github.com/bwmarrin/discordgo"
)

var errFetch = errors.New("fetch failed")

func handlePetpetCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	url := stringOption(i, optionURL)

	if err := deferResponse(s, i); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	gif, err := cache.Remember(ctx, h.cache, cache.Key("petpet", url), func() ([]byte, error) {
		img, _, err := h.fetcher.FetchImage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errFetch, err)
		}
		return h.petpet(img)
	})
	if err != nil {
		log.Printf("Error creating petpet from %s: %v", url, err)
		switch {
		case errors.Is(err, media.ErrNotImage):
			editResponse(s, i, "Please provide a link to an image.")
		case errors.Is(err, errFetch):
			editResponse(s, i, "Failed to retrieve image from link.")
		default:
			editResponse(s, i, "Failed to create petpet.")
		}
		return
	}

	editResponse(s, i, "", &discordgo.File{
		Name:        "petpet.gif",
		ContentType: "image/gif",
		Reader:      bytes.NewReader(gif),
	})
}

func handlePropagandaCommand(h *Handler, s Session, i *discordgo.InteractionCreate) {
	phrase := stringOption(i, optionPhrase)

	limit := h.cfg.Propaganda.MaxPhrase
	if utf8.RuneCountInString(phrase) > limit {
		respond(s, i, fmt.Sprintf("Please use a phrase of at most %d characters.", limit))
		return
	}

	if err := deferResponse(s, i); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	img, err := cache.Remember(ctx, h.cache, cache.Key("propaganda", phrase), func() ([]byte, error) {
		return h.propaganda.Render(phrase)
	})
	if err != nil {
		log.Printf("Error rendering propaganda for %q: %v", phrase, err)
		editResponse(s, i, "Failed to create propaganda.")
		return
	}

	editResponse(s, i, "", &discordgo.File{
		Name:        "propaganda.jpg",
		ContentType: "image/jpeg",
		Reader:      bytes.NewReader(img),
	})
}
