// Package reaper periodically removes expired refresh tokens so the ledger
// does not grow without bound.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"auth-service/internal/lib/logger/sl"
)

type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type Reaper struct {
	log      *slog.Logger
	sweeper  Sweeper
	interval time.Duration
}

func New(log *slog.Logger, sweeper Sweeper, interval time.Duration) *Reaper {
	return &Reaper{
		log:      log,
		sweeper:  sweeper,
		interval: interval,
	}
}

// Run sweeps once right away and then every interval until ctx is cancelled.
// A non-positive interval disables the reaper and Run returns immediately.
func (r *Reaper) Run(ctx context.Context) {
	const op = "reaper.Run"

	log := r.log.With(slog.String("op", op))

	if r.interval <= 0 {
		log.Info("refresh token reaper disabled")
		return
	}

	log.Info("refresh token reaper started", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.sweep(ctx, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("refresh token reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx, log)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context, log *slog.Logger) {
	n, err := r.sweeper.Sweep(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error("failed to sweep expired refresh tokens", sl.Err(err))
		return
	}

	if n > 0 {
		log.Info("expired refresh tokens removed", slog.Int64("count", n))
	}
}
