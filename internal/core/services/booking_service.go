package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
)

type BookingService struct {
	classRepo   ports.ClassRepository
	bookingRepo ports.BookingRepository
	ledger      *CapacityLedger
	clock       clock.Clock
	hooks       Hooks
}

func NewBookingService(classRepo ports.ClassRepository, bookingRepo ports.BookingRepository, ledger *CapacityLedger, clk clock.Clock, hooks Hooks) *BookingService {
	return &BookingService{
		classRepo:   classRepo,
		bookingRepo: bookingRepo,
		ledger:      ledger,
		clock:       clk,
		hooks:       hooks,
	}
}

// Book reserves a seat for the actor and records the booking. On any failure
// after the seat was reserved the seat is released again.
func (s *BookingService) Book(ctx context.Context, actor domain.Actor, classID uuid.UUID) (*domain.Booking, error) {
	if actor.UserID == "" {
		return nil, domain.NewError(domain.KindValidation, "user id is required")
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookingRepo.FindActive(ctx, classID, actor.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyBooked
	}

	outcome, err := s.ledger.TryReserve(ctx, classID)
	if err != nil {
		return nil, err
	}
	if outcome == Full {
		return nil, domain.ErrClassFull
	}

	now := s.clock.Now()
	booking := &domain.Booking{
		ID:        uuid.New(),
		ClassID:   classID,
		ClassName: class.Name,
		UserID:    actor.UserID,
		UserName:  actor.DisplayName,
		UserEmail: actor.Email,
		Status:    domain.BookingBooked,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bookingRepo.CreateBooking(ctx, booking); err != nil {
		s.compensate(ctx, classID)
		if errors.Is(err, domain.ErrAlreadyBooked) {
			return nil, domain.ErrAlreadyBooked
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// A cascade-cancel may have listed the class's bookings between our
	// reserve and insert. Re-check so this booking cannot outlive its class.
	current, err := s.classRepo.GetByID(ctx, classID)
	if err == nil && current.Status == domain.ClassCancelled {
		if _, cerr := s.cancelBooking(ctx, booking); cerr != nil && !errors.Is(cerr, domain.ErrAlreadyCancelled) {
			log.Printf("booking %s: cleanup after class cancel failed: %v", booking.ID, cerr)
		}
		return nil, domain.NewError(domain.KindInvalidTransition, "class was cancelled")
	}

	s.hooks.afterWrite(ctx, bookingEvent(ports.EventBookingCreated, booking, now))
	return booking, nil
}

// compensateTimeout bounds how long a failed Book keeps trying to hand its
// seat back once the request itself is gone.
const compensateTimeout = 10 * time.Second

// compensate returns the seat taken for a booking whose insert failed. It
// outlives a cancelled request context so the seat is not leaked.
func (s *BookingService) compensate(ctx context.Context, classID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	if err := s.ledger.Restore(ctx, classID); err != nil {
		log.Printf("booking: failed to release seat on class %s after failed insert: %v", classID, err)
	}
}

// Cancel cancels an active booking and frees its seat.
func (s *BookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	class, err := s.classRepo.GetByID(ctx, booking.ClassID)
	if err != nil {
		return err
	}

	if !actor.CanActOnBooking(*booking, *class) {
		return domain.ErrForbidden
	}

	if err := domain.CheckBookingTransition(booking.Status, domain.BookingCancelled); err != nil {
		return err
	}

	if domain.DeriveStatus(*class, s.clock.Now()) == domain.ClassCompleted {
		return domain.NewError(domain.KindInvalidTransition, "class already completed")
	}

	ok, err := s.cancelBooking(ctx, booking)
	if err != nil {
		return err
	}
	if ok {
		s.hooks.afterWrite(ctx, bookingEvent(ports.EventBookingCancelled, booking, s.clock.Now()))
	}
	return nil
}

// cancelBooking moves b from booked to cancelled and releases the seat. Only
// the caller that wins the status update releases, so a seat is never freed
// twice. If the release fails the booking is restored.
func (s *BookingService) cancelBooking(ctx context.Context, b *domain.Booking) (bool, error) {
	now := s.clock.Now()
	err := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingBooked, domain.BookingCancelled, now)
	if err != nil {
		if errors.Is(err, domain.ErrStorageConflict) {
			return false, s.explainConflict(ctx, b.ID, domain.BookingCancelled)
		}
		return false, err
	}

	if err := s.ledger.Release(ctx, b.ClassID); err != nil {
		if rerr := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingCancelled, domain.BookingBooked, now); rerr != nil {
			log.Printf("booking %s: restore after failed release: %v", b.ID, rerr)
		}
		return false, err
	}

	b.Status = domain.BookingCancelled
	b.UpdatedAt = now
	return true, nil
}

// explainConflict reloads a booking whose conditional update lost and
// reports why.
func (s *BookingService) explainConflict(ctx context.Context, id uuid.UUID, to domain.BookingStatus) error {
	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.CheckBookingTransition(current.Status, to); err != nil {
		return err
	}
	return domain.ErrUnavailable
}

// MarkAttended records that a booked member showed up. The seat stays taken.
func (s *BookingService) MarkAttended(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	class, err := s.classRepo.GetByID(ctx, booking.ClassID)
	if err != nil {
		return err
	}

	if !actor.CanManage(*class) {
		return domain.ErrForbidden
	}

	if err := s.markAttended(ctx, booking, class); err != nil {
		return err
	}

	s.hooks.afterWrite(ctx, bookingEvent(ports.EventBookingAttended, booking, s.clock.Now()))
	return nil
}

func (s *BookingService) markAttended(ctx context.Context, b *domain.Booking, class *domain.GymClass) error {
	if err := domain.CheckBookingTransition(b.Status, domain.BookingAttended); err != nil {
		return err
	}

	now := s.clock.Now()
	if domain.DeriveStatus(*class, now) == domain.ClassCancelled {
		return domain.NewError(domain.KindInvalidTransition, "class was cancelled")
	}
	if !class.HasStarted(now) {
		return domain.NewError(domain.KindInvalidTransition, "class has not started yet")
	}

	err := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingBooked, domain.BookingAttended, now)
	if err != nil {
		if errors.Is(err, domain.ErrStorageConflict) {
			return s.explainConflict(ctx, b.ID, domain.BookingAttended)
		}
		return err
	}

	b.Status = domain.BookingAttended
	b.UpdatedAt = now
	return nil
}

// cancelAllForClass cancels every booked booking of a class. It keeps going
// past individual failures and returns them joined.
func (s *BookingService) cancelAllForClass(ctx context.Context, classID uuid.UUID) (int, error) {
	bookings, err := s.bookingRepo.ListByClass(ctx, classID)
	if err != nil {
		return 0, err
	}

	var errs []error
	cancelled := 0
	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive() {
			continue
		}
		ok, err := s.cancelBooking(ctx, b)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyCancelled) {
				continue
			}
			errs = append(errs, fmt.Errorf("booking %s: %w", b.ID, err))
			continue
		}
		if ok {
			cancelled++
		}
	}
	return cancelled, errors.Join(errs...)
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *BookingService) ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.Booking, error) {
	return s.bookingRepo.ListByClass(ctx, classID)
}

func bookingEvent(typ string, b *domain.Booking, at time.Time) ports.Event {
	return ports.Event{
		Type:       typ,
		ClassID:    b.ClassID.String(),
		BookingID:  b.ID.String(),
		UserID:     b.UserID,
		OccurredAt: at,
	}
}
