package ports

import (
	"context"
	"time"
)

const (
	EventBookingCreated     = "booking.created"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingAttended    = "booking.attended"
	EventClassCancelled     = "class.cancelled"
	EventAttendanceRecorded = "attendance.recorded"
)

type Event struct {
	Type       string         `json:"type"`
	ClassID    string         `json:"class_id"`
	BookingID  string         `json:"booking_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// EventPublisher delivers domain events to downstream consumers. Callers log
// and ignore publish errors.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
