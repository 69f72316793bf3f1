package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle of one booking. A booked or attended
// booking holds a seat: attending does not give the seat back, so a class's
// enrolled count equals its booked plus attended bookings. Only a cancel
// releases a seat.
type BookingStatus string

const (
	BookingBooked    BookingStatus = "booked"
	BookingCancelled BookingStatus = "cancelled"
	BookingAttended  BookingStatus = "attended"
)

type Booking struct {
	ID        uuid.UUID
	ClassID   uuid.UUID
	ClassName string
	UserID    string
	UserName  string
	UserEmail string
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingBooked
}

// HoldsSeat reports whether the booking is counted in its class's enrolled
// total. Attended bookings keep the seat they consumed.
func (b *Booking) HoldsSeat() bool {
	return b.Status == BookingBooked || b.Status == BookingAttended
}

// CheckBookingTransition validates a move out of from. cancelled and attended
// are terminal.
func CheckBookingTransition(from, to BookingStatus) error {
	if from == BookingBooked && (to == BookingCancelled || to == BookingAttended) {
		return nil
	}
	if from == BookingCancelled && to == BookingCancelled {
		return ErrAlreadyCancelled
	}
	return NewError(KindInvalidTransition, "booking cannot move from %s to %s", from, to)
}
