package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
)

type ReserveOutcome int

const (
	Reserved ReserveOutcome = iota + 1
	Full
)

func (o ReserveOutcome) String() string {
	switch o {
	case Reserved:
		return "reserved"
	case Full:
		return "full"
	}
	return "unknown"
}

const (
	defaultLedgerRetries = 8
	defaultLedgerBackoff = 5 * time.Millisecond
)

type LedgerConfig struct {
	MaxRetries int
	Backoff    time.Duration
}

// CapacityLedger is the only writer of GymClass.Enrolled. Every change is a
// single guarded ReserveSeat or ReleaseSeat, so concurrent callers never
// overwrite each other's count and a reserve only misses when the class is
// really full or closed. Storage conflicts from aborted transactions are
// retried with jittered backoff.
type CapacityLedger struct {
	classRepo  ports.ClassRepository
	clock      clock.Clock
	maxRetries int
	backoff    time.Duration
}

// NewCapacityLedger applies defaults to zero config fields. A negative
// Backoff disables waiting between retries.
func NewCapacityLedger(classRepo ports.ClassRepository, clk clock.Clock, cfg LedgerConfig) *CapacityLedger {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultLedgerRetries
	}
	switch {
	case cfg.Backoff == 0:
		cfg.Backoff = defaultLedgerBackoff
	case cfg.Backoff < 0:
		cfg.Backoff = 0
	}
	return &CapacityLedger{
		classRepo:  classRepo,
		clock:      clk,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
	}
}

// TryReserve takes one seat in the class if one is free.
func (l *CapacityLedger) TryReserve(ctx context.Context, classID uuid.UUID) (ReserveOutcome, error) {
	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		class, err := l.classRepo.GetByID(ctx, classID)
		if err != nil {
			return 0, err
		}

		status := domain.DeriveStatus(*class, l.clock.Now())
		if status.Terminal() {
			return 0, domain.NewError(domain.KindInvalidTransition, "class is %s and not open for booking", status)
		}

		if class.Enrolled >= class.Capacity {
			return Full, nil
		}

		ok, err := l.classRepo.ReserveSeat(ctx, classID)
		switch {
		case err == nil && ok:
			return Reserved, nil
		case err == nil:
			// Filled or closed after our read; the next read says which.
			continue
		case !errors.Is(err, domain.ErrStorageConflict):
			return 0, err
		}

		if err := l.wait(ctx, attempt); err != nil {
			return 0, err
		}
	}

	class, err := l.classRepo.GetByID(ctx, classID)
	if err == nil && class.Enrolled >= class.Capacity {
		return Full, nil
	}

	log.Printf("ledger: reserve on class %s gave up after %d attempts", classID, l.maxRetries)
	return 0, domain.WrapError(domain.KindUnavailable, "could not reserve seat", domain.ErrStorageConflict)
}

// Release frees one seat. A class already at zero is left untouched.
func (l *CapacityLedger) Release(ctx context.Context, classID uuid.UUID) error {
	class, err := l.classRepo.GetByID(ctx, classID)
	if err != nil {
		return err
	}

	if class.Status == domain.ClassCompleted {
		return domain.NewError(domain.KindInvalidTransition, "class is completed, enrollment is frozen")
	}

	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		err := l.releaseOnce(ctx, classID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrStorageConflict) {
			return err
		}

		if err := l.wait(ctx, attempt); err != nil {
			return err
		}
	}

	log.Printf("ledger: release on class %s gave up after %d conflicts", classID, l.maxRetries)
	return domain.WrapError(domain.KindUnavailable, "could not release seat", domain.ErrStorageConflict)
}

// Restore gives back a seat that was reserved for a booking that was never
// written. The seat was never observable as a booking, so the completed-class
// freeze does not apply, and conflicts are retried until ctx is done.
func (l *CapacityLedger) Restore(ctx context.Context, classID uuid.UUID) error {
	for attempt := 1; ; attempt++ {
		err := l.releaseOnce(ctx, classID)
		if err == nil || !errors.Is(err, domain.ErrStorageConflict) {
			return err
		}

		if err := l.wait(ctx, min(attempt, l.maxRetries)); err != nil {
			return err
		}
	}
}

func (l *CapacityLedger) releaseOnce(ctx context.Context, classID uuid.UUID) error {
	ok, err := l.classRepo.ReleaseSeat(ctx, classID)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("ledger: release on class %s with no enrolled seats ignored", classID)
	}
	return nil
}

func (l *CapacityLedger) wait(ctx context.Context, attempt int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.backoff <= 0 {
		return nil
	}
	d := time.Duration(rand.Int63n(int64(l.backoff)*int64(attempt))) + 1
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
