// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces successive external calls. The production implementation is
// a token bucket; tests inject NopPacer so the delay policy is testable
// without wall-clock waits.
type Pacer interface {
	Wait(ctx context.Context) error
}

type limiterPacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a Pacer that allows one call per interval, with a burst
// of one so the first call proceeds immediately.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return NopPacer{}
	}
	return &limiterPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *limiterPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer never waits.
type NopPacer struct{}

// Wait returns immediately.
func (NopPacer) Wait(context.Context) error { return nil }
