package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Poller runs scrape passes on a fixed interval. One pass is always in flight
// at a time; a slow pass delays the next tick rather than stacking passes.
type Poller struct {
	service  *Service
	interval time.Duration
	clock    clockwork.Clock
}

func NewPoller(service *Service, interval time.Duration, clock clockwork.Clock) *Poller {
	return &Poller{
		service:  service,
		interval: interval,
		clock:    clock,
	}
}

// Run executes an immediate pass, then one per interval. It blocks until ctx
// is cancelled. Pass failures are logged and do not stop the loop.
func (p *Poller) Run(ctx context.Context) {
	p.runPass(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller stopped")
			return
		case <-ticker.Chan():
			p.runPass(ctx)
		}
	}
}

func (p *Poller) runPass(ctx context.Context) {
	report, err := p.service.RunPass(ctx)
	if err != nil {
		slog.Warn("scrape pass finished with errors",
			"scanned", report.Scanned, "recorded", report.Recorded, "error", err)
	}
}
