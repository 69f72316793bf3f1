package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

type AttendanceRepository struct {
	mu      sync.RWMutex
	records []domain.AttendanceRecord
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{}
}

func (r *AttendanceRepository) Append(ctx context.Context, record *domain.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, *record)
	return nil
}

// ListByClass returns records in the order they were written.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.AttendanceRecord, 0)
	for _, rec := range r.records {
		if rec.ClassID == classID {
			out = append(out, rec)
		}
	}
	return out, nil
}
