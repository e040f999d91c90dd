package wikipedia

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Pacer enforces the politeness contract: a minimum delay between
// consecutive outbound requests across the whole run. The only shared state
// it carries is the last-request timestamp.
type Pacer struct {
	minInterval time.Duration
	clock       clockwork.Clock

	mu   sync.Mutex
	last time.Time
}

// NewPacer creates a Pacer with the given minimum inter-request interval.
// Pass a fake clock in tests to avoid real sleeps.
func NewPacer(minInterval time.Duration, clock clockwork.Clock) *Pacer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pacer{minInterval: minInterval, clock: clock}
}

// Wait blocks until the minimum interval since the previous request has
// elapsed, then records the new request time. The first call never waits.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	var wait time.Duration
	if !p.last.IsZero() {
		if elapsed := p.clock.Since(p.last); elapsed < p.minInterval {
			wait = p.minInterval - elapsed
		}
	}
	p.mu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(wait):
		}
	}

	p.mu.Lock()
	p.last = p.clock.Now()
	p.mu.Unlock()
	return nil
}
