package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]domain.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[uuid.UUID]domain.Booking)}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.ClassID == booking.ClassID && b.UserID == booking.UserID && b.HoldsSeat() {
			return domain.ErrAlreadyBooked
		}
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "booking %s not found", id)
	}
	return &b, nil
}

func (r *BookingRepository) FindActive(ctx context.Context, classID uuid.UUID, userID string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ClassID == classID && b.UserID == userID && b.HoldsSeat() {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return domain.NewError(domain.KindNotFound, "booking %s not found", id)
	}
	if b.Status != from {
		return domain.ErrStorageConflict
	}
	b.Status = to
	b.UpdatedAt = at
	r.bookings[id] = b
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *BookingRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool { return b.ClassID == classID }), nil
}

// list returns matching bookings, newest first.
func (r *BookingRepository) list(match func(domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
