package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports/mocks"
	"github.com/srgjo27/gym_booking/internal/core/services"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func openClass(capacity, enrolled, version int) *domain.GymClass {
	return &domain.GymClass{
		ID:       uuid.New(),
		Name:     "Spin",
		StartsAt: baseTime.Add(time.Hour),
		EndsAt:   baseTime.Add(2 * time.Hour),
		Capacity: capacity,
		Enrolled: enrolled,
		Status:   domain.ClassScheduled,
		Version:  version,
	}
}

func TestCapacityLedger_ConcurrentReservesNeverOverbook(t *testing.T) {
	repo := memory.NewClassRepository()
	class := openClass(20, 0, 1)
	require.NoError(t, repo.Create(context.Background(), class))

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 2})

	const callers = 60
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[services.ReserveOutcome]int{}
		errs     []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := ledger.TryReserve(context.Background(), class.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			outcomes[outcome]++
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 20, outcomes[services.Reserved])
	assert.Equal(t, callers-20, outcomes[services.Full])

	stored, err := repo.GetByID(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Enrolled)
}

func TestCapacityLedger_ReserveFullClass(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(2, 2, 5)

	repo.On("GetByID", ctx, class.ID).Return(class, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{})
	outcome, err := ledger.TryReserve(ctx, class.ID)

	assert.NoError(t, err)
	assert.Equal(t, services.Full, outcome)
}

func TestCapacityLedger_ReserveMissRereadsAndReportsFull(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	seen := openClass(3, 2, 1)
	filled := *seen
	filled.Enrolled = 3

	repo.On("GetByID", ctx, seen.ID).Return(seen, nil).Once()
	repo.On("ReserveSeat", ctx, seen.ID).Return(false, nil).Once()
	repo.On("GetByID", ctx, seen.ID).Return(&filled, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 3})
	outcome, err := ledger.TryReserve(ctx, seen.ID)

	assert.NoError(t, err)
	assert.Equal(t, services.Full, outcome)
}

func TestCapacityLedger_ReserveMissOnCancelledClass(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	seen := openClass(3, 0, 1)
	cancelled := *seen
	cancelled.Status = domain.ClassCancelled

	repo.On("GetByID", ctx, seen.ID).Return(seen, nil).Once()
	repo.On("ReserveSeat", ctx, seen.ID).Return(false, nil).Once()
	repo.On("GetByID", ctx, seen.ID).Return(&cancelled, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{})
	_, err := ledger.TryReserve(ctx, seen.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCapacityLedger_RetriesConflictThenSucceeds(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(5, 1, 3)

	repo.On("GetByID", ctx, class.ID).Return(class, nil).Twice()
	repo.On("ReserveSeat", ctx, class.ID).Return(false, domain.ErrStorageConflict).Once()
	repo.On("ReserveSeat", ctx, class.ID).Return(true, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 3, Backoff: time.Microsecond})
	outcome, err := ledger.TryReserve(ctx, class.ID)

	assert.NoError(t, err)
	assert.Equal(t, services.Reserved, outcome)
}

func TestCapacityLedger_GivesUpAfterMaxRetries(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(5, 0, 1)

	// Three attempts plus the final read.
	repo.On("GetByID", ctx, class.ID).Return(class, nil).Times(4)
	repo.On("ReserveSeat", ctx, class.ID).Return(false, domain.ErrStorageConflict).Times(3)

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 3, Backoff: time.Microsecond})
	_, err := ledger.TryReserve(ctx, class.ID)

	assert.Error(t, err)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrStorageConflict)
}

func TestCapacityLedger_ExhaustedRetriesOnFullClassReportFull(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(5, 4, 1)
	full := *class
	full.Enrolled = 5

	repo.On("GetByID", ctx, class.ID).Return(class, nil).Twice()
	repo.On("ReserveSeat", ctx, class.ID).Return(false, domain.ErrStorageConflict).Twice()
	repo.On("GetByID", ctx, class.ID).Return(&full, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 2, Backoff: -1})
	outcome, err := ledger.TryReserve(ctx, class.ID)

	assert.NoError(t, err)
	assert.Equal(t, services.Full, outcome)
}

func TestCapacityLedger_RejectsClosedClasses(t *testing.T) {
	tests := []struct {
		name  string
		class func() *domain.GymClass
	}{
		{
			name: "cancelled",
			class: func() *domain.GymClass {
				c := openClass(5, 0, 1)
				c.Status = domain.ClassCancelled
				return c
			},
		},
		{
			name: "ended by clock",
			class: func() *domain.GymClass {
				c := openClass(5, 0, 1)
				c.StartsAt = baseTime.Add(-2 * time.Hour)
				c.EndsAt = baseTime.Add(-time.Hour)
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewClassRepository(t)
			ctx := context.Background()
			class := tt.class()
			repo.On("GetByID", ctx, class.ID).Return(class, nil).Once()

			ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{})
			_, err := ledger.TryReserve(ctx, class.ID)

			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

func TestCapacityLedger_ReleaseAtZeroIsNoop(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(5, 0, 1)

	repo.On("GetByID", ctx, class.ID).Return(class, nil).Once()
	repo.On("ReleaseSeat", ctx, class.ID).Return(false, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{})

	assert.NoError(t, ledger.Release(ctx, class.ID))
}

func TestCapacityLedger_ReleaseOnCompletedClassRejected(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(5, 3, 1)
	class.Status = domain.ClassCompleted

	repo.On("GetByID", ctx, class.ID).Return(class, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{})
	err := ledger.Release(ctx, class.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCapacityLedger_ReleaseStopsOnCancelledContext(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	class := openClass(5, 2, 7)

	repo.On("GetByID", ctx, class.ID).Return(class, nil).Once()
	repo.On("ReleaseSeat", ctx, class.ID).
		Run(func(mock.Arguments) { cancel() }).
		Return(false, domain.ErrStorageConflict).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 5, Backoff: time.Second})
	err := ledger.Release(ctx, class.ID)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCapacityLedger_RestoreOutlastsRetryLimit(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx := context.Background()
	class := openClass(5, 2, 7)

	repo.On("ReleaseSeat", ctx, class.ID).Return(false, domain.ErrStorageConflict).Times(6)
	repo.On("ReleaseSeat", ctx, class.ID).Return(true, nil).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{MaxRetries: 2, Backoff: time.Microsecond})

	assert.NoError(t, ledger.Restore(ctx, class.ID))
}

func TestCapacityLedger_RestoreIgnoresCompletedFreeze(t *testing.T) {
	repo := memory.NewClassRepository()
	ctx := context.Background()
	class := openClass(5, 0, 1)
	require.NoError(t, repo.Create(ctx, class))

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{})
	outcome, err := ledger.TryReserve(ctx, class.ID)
	require.NoError(t, err)
	require.Equal(t, services.Reserved, outcome)

	stored, err := repo.GetByID(ctx, class.ID)
	require.NoError(t, err)
	stored.Status = domain.ClassCompleted
	require.NoError(t, repo.UpdateDetails(ctx, stored, stored.Version))

	assert.ErrorIs(t, ledger.Release(ctx, class.ID), domain.ErrInvalidTransition)
	require.NoError(t, ledger.Restore(ctx, class.ID))

	stored, err = repo.GetByID(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Enrolled)
}

func TestCapacityLedger_RestoreStopsWhenContextDone(t *testing.T) {
	repo := mocks.NewClassRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	class := openClass(5, 2, 7)

	repo.On("ReleaseSeat", ctx, class.ID).
		Run(func(mock.Arguments) { cancel() }).
		Return(false, domain.ErrStorageConflict).Once()

	ledger := services.NewCapacityLedger(repo, clock.NewFake(baseTime), services.LedgerConfig{Backoff: time.Second})

	assert.ErrorIs(t, ledger.Restore(ctx, class.ID), context.Canceled)
}
