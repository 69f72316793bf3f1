package services

import (
	"context"
	"log"
	"time"

	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
)

// StatusSweeper persists the status transitions implied by the clock. Reads
// derive the status themselves, so the sweeper only keeps stored rows tidy.
type StatusSweeper struct {
	catalog   *CatalogService
	classRepo ports.ClassRepository
	clock     clock.Clock
	interval  time.Duration
}

func NewStatusSweeper(catalog *CatalogService, classRepo ports.ClassRepository, clk clock.Clock, interval time.Duration) *StatusSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatusSweeper{
		catalog:   catalog,
		classRepo: classRepo,
		clock:     clk,
		interval:  interval,
	}
}

func (s *StatusSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Status sweeper started: checking class status every %s...", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Status sweeper stopped.")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep advances every stored scheduled/ongoing class whose derived status
// has moved on. It returns the number of classes updated.
func (s *StatusSweeper) Sweep(ctx context.Context) int {
	now := s.clock.Now()
	classes, err := s.classRepo.List(ctx, ports.ClassFilter{
		To:       now.Add(time.Nanosecond),
		Statuses: []domain.ClassStatus{domain.ClassScheduled, domain.ClassOngoing},
	})
	if err != nil {
		log.Printf("Error fetching classes to sweep: %v", err)
		return 0
	}

	updated := 0
	for _, c := range classes {
		target := domain.DeriveStatus(c, now)
		if target == c.Status {
			continue
		}
		if _, err := s.catalog.TransitionStatus(ctx, domain.SystemActor(), c.ID, target); err != nil {
			log.Printf("Failed to move class %s to %s: %v", c.ID, target, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("Status sweeper advanced %d classes.", updated)
	}
	return updated
}
