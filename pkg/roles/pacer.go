package roles

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum spacing between consecutive directory calls.
// The first Wait returns immediately; each later Wait blocks until spacing
// has elapsed since the previous one. A zero spacing never blocks.
type Pacer struct {
	limiter *rate.Limiter
}

func NewPacer(spacing time.Duration) *Pacer {
	if spacing <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(spacing), 1)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
