package bot

import (
	"time"

	"logician/pkg/cache"
	"logician/pkg/config"
	"logician/pkg/roles"
)

// commandTimeout bounds the work done for a single interaction. Discord
// interaction tokens stay valid for 15 minutes.
const commandTimeout = 2 * time.Minute

type Handler struct {
	cfg        *config.Config
	reconciler *roles.Reconciler
	colors     roles.ColorLookup
	fetcher    ImageFetcher
	petpet     func([]byte) ([]byte, error)
	propaganda PropagandaRenderer
	completer  Completer
	cache      cache.Store
}

// NewHandler wires the command layer. completer may be nil, in which case the
// prompt command answers that text generation is unavailable. store may be
// nil to disable render caching.
func NewHandler(
	cfg *config.Config,
	reconciler *roles.Reconciler,
	colors roles.ColorLookup,
	fetcher ImageFetcher,
	petpet func([]byte) ([]byte, error),
	propaganda PropagandaRenderer,
	completer Completer,
	store cache.Store,
) *Handler {
	return &Handler{
		cfg:        cfg,
		reconciler: reconciler,
		colors:     colors,
		fetcher:    fetcher,
		petpet:     petpet,
		propaganda: propaganda,
		completer:  completer,
		cache:      store,
	}
}
