package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

// ClassFilter narrows ListClasses. Zero values match everything.
type ClassFilter struct {
	From         time.Time
	To           time.Time
	Type         string
	InstructorID string
	Statuses     []domain.ClassStatus
}

// ClassRepository stores class definitions. Detail writes are conditional on
// the caller's last seen Version and return domain.ErrStorageConflict when the
// stored row has moved on. Enrolled is only moved by ReserveSeat and
// ReleaseSeat, which are single conditional increments and leave Version alone.
type ClassRepository interface {
	Create(ctx context.Context, class *domain.GymClass) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GymClass, error)
	List(ctx context.Context, filter ClassFilter) ([]domain.GymClass, error)
	// UpdateDetails writes everything except Enrolled. The row is only
	// updated if its version matches and the new capacity still covers the
	// stored enrollment.
	UpdateDetails(ctx context.Context, class *domain.GymClass, expectedVersion int) error
	// ReserveSeat adds one to Enrolled if the stored row is scheduled or
	// ongoing and below capacity. It reports false when no seat was taken.
	ReserveSeat(ctx context.Context, id uuid.UUID) (bool, error)
	// ReleaseSeat subtracts one from Enrolled if it is above zero. It
	// reports false when the row was already at zero.
	ReleaseSeat(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingRepository interface {
	// CreateBooking inserts a booked record. It returns ErrAlreadyBooked if
	// another booked record exists for the same class and user.
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	FindActive(ctx context.Context, classID uuid.UUID, userID string) (*domain.Booking, error)
	// UpdateStatus moves a booking from one status to another only if it is
	// still in from, stamping UpdatedAt with at. A booking in another status
	// yields ErrStorageConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, at time.Time) error
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.Booking, error)
}

// AttendanceRepository is append-only.
type AttendanceRepository interface {
	Append(ctx context.Context, record *domain.AttendanceRecord) error
	ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.AttendanceRecord, error)
}
