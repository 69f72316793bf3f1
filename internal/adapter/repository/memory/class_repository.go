package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
)

// ClassRepository keeps classes in process memory. Conditional writes are
// checked and applied under one lock, which gives the same guarantees as the
// guarded UPDATEs of the Postgres adapter.
type ClassRepository struct {
	mu      sync.RWMutex
	classes map[uuid.UUID]domain.GymClass
}

func NewClassRepository() *ClassRepository {
	return &ClassRepository{classes: make(map[uuid.UUID]domain.GymClass)}
}

func (r *ClassRepository) Create(ctx context.Context, class *domain.GymClass) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.classes[class.ID]; ok {
		return domain.NewError(domain.KindValidation, "class %s already exists", class.ID)
	}
	r.classes[class.ID] = *class
	return nil
}

func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GymClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "class %s not found", id)
	}
	return &c, nil
}

func (r *ClassRepository) List(ctx context.Context, filter ports.ClassFilter) ([]domain.GymClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.GymClass, 0, len(r.classes))
	for _, c := range r.classes {
		if !filter.From.IsZero() && c.StartsAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !c.StartsAt.Before(filter.To) {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, c.Status) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

func (r *ClassRepository) UpdateDetails(ctx context.Context, class *domain.GymClass, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.classes[class.ID]
	if !ok {
		return domain.NewError(domain.KindNotFound, "class %s not found", class.ID)
	}
	if stored.Version != expectedVersion || class.Capacity < stored.Enrolled {
		return domain.ErrStorageConflict
	}

	next := *class
	next.Enrolled = stored.Enrolled
	next.CreatedAt = stored.CreatedAt
	next.Version = stored.Version + 1
	r.classes[class.ID] = next

	class.Enrolled = next.Enrolled
	class.Version = next.Version
	return nil
}

func (r *ClassRepository) ReserveSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.classes[id]
	if !ok {
		return false, domain.NewError(domain.KindNotFound, "class %s not found", id)
	}
	if stored.Status.Terminal() || stored.Enrolled >= stored.Capacity {
		return false, nil
	}

	stored.Enrolled++
	r.classes[id] = stored
	return true, nil
}

func (r *ClassRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.classes[id]
	if !ok {
		return false, domain.NewError(domain.KindNotFound, "class %s not found", id)
	}
	if stored.Enrolled <= 0 {
		return false, nil
	}

	stored.Enrolled--
	r.classes[id] = stored
	return true, nil
}
