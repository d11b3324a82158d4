package main

import (
	"context"
	"log/slog"
	"time"

	"turret-console/internal/backend"
	"turret-console/internal/live"
	"turret-console/internal/view"
)

// snapshotLoop keeps the turret registry seeded from the upstream inventory.
// A fetch runs at boot, then on a fixed interval, plus on demand via
// Request. On-demand requests are debounced so a burst of refresh clicks
// costs one upstream round trip.
type snapshotLoop struct {
	backend  *backend.Client
	live     *live.Reconciler
	interval time.Duration
	log      *slog.Logger

	debounce *view.Debouncer[struct{}]
}

func newSnapshotLoop(client *backend.Client, rec *live.Reconciler, interval time.Duration, log *slog.Logger) *snapshotLoop {
	s := &snapshotLoop{
		backend:  client,
		live:     rec,
		interval: interval,
		log:      log,
	}
	s.debounce = view.NewDebouncer(300*time.Millisecond, func(struct{}) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.refetch(ctx)
	})
	return s
}

// Request asks for an out-of-cycle refetch. Safe from any goroutine.
func (s *snapshotLoop) Request() {
	s.debounce.Set(struct{}{})
}

// Run blocks until ctx is canceled. Interval <= 0 disables the periodic
// refetch; the boot-time fetch still runs.
func (s *snapshotLoop) Run(ctx context.Context) {
	defer s.debounce.Stop()

	s.refetch(ctx)
	if s.interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refetch(ctx)
		}
	}
}

func (s *snapshotLoop) refetch(ctx context.Context) {
	turrets, err := s.backend.ListActiveTurrets(ctx)
	if err != nil {
		// Stale state beats no state. Keep what we have and retry next cycle.
		s.log.Warn("snapshot refetch failed", "err", err)
		return
	}

	seeds := make([]live.Seed, 0, len(turrets))
	for _, t := range turrets {
		if t.TurretName == "" {
			continue
		}
		seeds = append(seeds, live.Seed{TurretName: t.TurretName, IP: t.IP})
	}
	s.live.SeedSnapshot(seeds)
	s.log.Debug("snapshot applied", "turrets", len(seeds))
}
