package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
)

type CatalogService struct {
	classRepo  ports.ClassRepository
	bookings   *BookingService
	clock      clock.Clock
	hooks      Hooks
	maxRetries int
}

func NewCatalogService(classRepo ports.ClassRepository, bookings *BookingService, clk clock.Clock, hooks Hooks, maxRetries int) *CatalogService {
	if maxRetries <= 0 {
		maxRetries = defaultLedgerRetries
	}
	return &CatalogService{
		classRepo:  classRepo,
		bookings:   bookings,
		clock:      clk,
		hooks:      hooks,
		maxRetries: maxRetries,
	}
}

func (s *CatalogService) CreateClass(ctx context.Context, actor domain.Actor, def domain.ClassDefinition) (*domain.GymClass, error) {
	if !actor.CanSchedule() {
		return nil, domain.ErrForbidden
	}

	// Trainers schedule their own classes.
	if actor.Role == domain.RoleTrainer {
		if def.InstructorID == "" {
			def.InstructorID = actor.UserID
		}
		if def.InstructorName == "" {
			def.InstructorName = actor.DisplayName
		}
		if def.InstructorID != actor.UserID {
			return nil, domain.NewError(domain.KindForbidden, "trainers can only schedule their own classes")
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	class := &domain.GymClass{
		ID:             uuid.New(),
		Name:           def.Name,
		Description:    def.Description,
		Type:           def.Type,
		InstructorID:   def.InstructorID,
		InstructorName: def.InstructorName,
		StartsAt:       def.StartsAt.UTC(),
		EndsAt:         def.EndsAt.UTC(),
		Location:       def.Location,
		Capacity:       def.Capacity,
		Enrolled:       0,
		Status:         domain.ClassScheduled,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}

	log.Printf("class %s created by %s (capacity=%d)", class.ID, actor.UserID, class.Capacity)
	s.hooks.afterWrite(ctx)
	return class, nil
}

// UpdateClass applies a metadata or capacity patch. Capacity may never drop
// below the current enrollment.
func (s *CatalogService) UpdateClass(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.ClassPatch) (*domain.GymClass, error) {
	if patch.Empty() {
		return nil, domain.NewError(domain.KindValidation, "nothing to update")
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		class, err := s.classRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if !actor.CanManage(*class) {
			return nil, domain.ErrForbidden
		}

		if status := domain.DeriveStatus(*class, s.clock.Now()); status.Terminal() {
			return nil, domain.NewError(domain.KindInvalidTransition, "class is %s and can no longer be edited", status)
		}

		updated, err := patch.Apply(*class)
		if err != nil {
			return nil, err
		}

		if updated.Capacity < class.Enrolled {
			return nil, domain.NewError(domain.KindCapacityViolation,
				"capacity %d is below current enrollment %d", updated.Capacity, class.Enrolled)
		}

		updated.UpdatedAt = s.clock.Now()
		err = s.classRepo.UpdateDetails(ctx, &updated, class.Version)
		if err == nil {
			s.hooks.afterWrite(ctx)
			return &updated, nil
		}
		if !errors.Is(err, domain.ErrStorageConflict) {
			return nil, err
		}
	}

	return nil, domain.WrapError(domain.KindUnavailable, "could not update class", domain.ErrStorageConflict)
}

// TransitionStatus moves a class forward in its lifecycle. Cancelling a
// class cancels all of its active bookings.
func (s *CatalogService) TransitionStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, target domain.ClassStatus) (*domain.GymClass, error) {
	if !target.Valid() {
		return nil, domain.NewError(domain.KindValidation, "unknown status %q", target)
	}

	var updated domain.GymClass
	done := false
	for attempt := 0; attempt < s.maxRetries && !done; attempt++ {
		class, err := s.classRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if !actor.CanManage(*class) {
			return nil, domain.ErrForbidden
		}

		current := domain.DeriveStatus(*class, s.clock.Now())
		// Persisting a status the clock already implies is always allowed.
		persistDerived := target == current && class.Status != current
		if !persistDerived && !domain.CanTransition(current, target) {
			return nil, domain.NewError(domain.KindInvalidTransition, "class cannot move from %s to %s", current, target)
		}

		updated = *class
		updated.Status = target
		updated.UpdatedAt = s.clock.Now()
		err = s.classRepo.UpdateDetails(ctx, &updated, class.Version)
		if err == nil {
			done = true
			continue
		}
		if !errors.Is(err, domain.ErrStorageConflict) {
			return nil, err
		}
	}
	if !done {
		return nil, domain.WrapError(domain.KindUnavailable, "could not change class status", domain.ErrStorageConflict)
	}

	log.Printf("class %s moved to %s by %s", id, target, actor.UserID)

	if target != domain.ClassCancelled {
		s.hooks.afterWrite(ctx)
		return &updated, nil
	}

	n, err := s.bookings.cancelAllForClass(ctx, id)
	s.hooks.afterWrite(ctx, ports.Event{
		Type:       ports.EventClassCancelled,
		ClassID:    id.String(),
		Attributes: map[string]any{"bookings_cancelled": n},
		OccurredAt: s.clock.Now(),
	})
	if err != nil {
		log.Printf("class %s: cascade cancel left bookings behind: %v", id, err)
		return nil, domain.WrapError(domain.KindPartialFailure, "class cancelled but some bookings could not be released", err)
	}

	if fresh, err := s.classRepo.GetByID(ctx, id); err == nil {
		updated = *fresh
	}
	return &updated, nil
}

// GetClass returns the class with its clock-derived status.
func (s *CatalogService) GetClass(ctx context.Context, id uuid.UUID) (*domain.GymClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	class.Status = domain.DeriveStatus(*class, s.clock.Now())
	return class, nil
}

func (s *CatalogService) ListClasses(ctx context.Context, filter ports.ClassFilter) ([]domain.GymClass, error) {
	classes, err := s.classRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range classes {
		classes[i].Status = domain.DeriveStatus(classes[i], now)
	}
	return classes, nil
}
