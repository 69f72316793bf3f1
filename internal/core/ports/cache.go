package ports

import (
	"context"

	"github.com/srgjo27/gym_booking/internal/core/domain"
)

// ScheduleCache holds read-side class snapshots keyed by generation and
// query. Writers call Invalidate after every catalog or enrollment change,
// which moves the generation on. A reader takes the generation before it
// queries the store and stores its snapshot under that same generation, so
// a snapshot taken before a write is never served after it. A miss is
// reported as ok=false with a nil error.
type ScheduleCache interface {
	Generation(ctx context.Context) (int64, error)
	GetClasses(ctx context.Context, gen int64, key string) (classes []domain.GymClass, ok bool, err error)
	SetClasses(ctx context.Context, gen int64, key string, classes []domain.GymClass) error
	Invalidate(ctx context.Context) error
}
