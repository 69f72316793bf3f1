package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is an append-only roll-call fact. Corrections are written
// as new records under a new roll-call.
type AttendanceRecord struct {
	ID          uuid.UUID
	RollCallID  uuid.UUID
	ClassID     uuid.UUID
	ClassName   string
	MemberID    string
	MemberName  string
	TrainerID   string
	Present     bool
	SessionDate time.Time
	CreatedAt   time.Time
}

// RollCallResult reports the outcome of one roll-call per member.
type RollCallResult struct {
	RollCallID uuid.UUID
	Recorded   []AttendanceRecord
	Failed     map[string]error
	// Unmatched lists present member ids that had no booking on the class.
	Unmatched []string
}

func (r *RollCallResult) HasFailures() bool {
	return len(r.Failed) > 0
}
