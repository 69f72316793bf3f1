package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/services"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
	"github.com/stretchr/testify/require"
)

var (
	baseTime = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	admin   = domain.Actor{UserID: "admin-1", DisplayName: "Admin", Role: domain.RoleAdmin}
	trainer = domain.Actor{UserID: "trainer-1", DisplayName: "Tari", Role: domain.RoleTrainer}
)

func member(id string) domain.Actor {
	return domain.Actor{UserID: id, DisplayName: "Member " + id, Email: id + "@example.com", Role: domain.RoleMember}
}

type fixture struct {
	clock      *clock.Fake
	classes    *memory.ClassRepository
	bookings   *memory.BookingRepository
	attendance *memory.AttendanceRepository
	ledger     *services.CapacityLedger
	booking    *services.BookingService
	catalog    *services.CatalogService
	rollCall   *services.AttendanceService
	schedule   *services.ScheduleQuery
}

func newFixture(t *testing.T, hooks services.Hooks) *fixture {
	t.Helper()

	f := &fixture{
		clock:      clock.NewFake(baseTime),
		classes:    memory.NewClassRepository(),
		bookings:   memory.NewBookingRepository(),
		attendance: memory.NewAttendanceRepository(),
	}
	f.ledger = services.NewCapacityLedger(f.classes, f.clock, services.LedgerConfig{})
	f.booking = services.NewBookingService(f.classes, f.bookings, f.ledger, f.clock, hooks)
	f.catalog = services.NewCatalogService(f.classes, f.booking, f.clock, hooks, 10)
	f.rollCall = services.NewAttendanceService(f.classes, f.attendance, f.booking, f.clock, hooks)
	f.schedule = services.NewScheduleQuery(f.classes, f.bookings, nil, f.clock, time.UTC)
	return f
}

// addClass schedules a one hour class taught by trainer, starting after
// startIn.
func (f *fixture) addClass(t *testing.T, name string, capacity int, startIn time.Duration) *domain.GymClass {
	t.Helper()

	start := f.clock.Now().Add(startIn)
	class, err := f.catalog.CreateClass(context.Background(), admin, domain.ClassDefinition{
		Name:           name,
		Type:           "yoga",
		InstructorID:   trainer.UserID,
		InstructorName: trainer.DisplayName,
		StartsAt:       start,
		EndsAt:         start.Add(time.Hour),
		Location:       "Studio A",
		Capacity:       capacity,
	})
	require.NoError(t, err)
	return class
}

// bookMembers books members m1..mn into the class.
func (f *fixture) bookMembers(t *testing.T, classID uuid.UUID, n int) []*domain.Booking {
	t.Helper()

	out := make([]*domain.Booking, 0, n)
	for i := 1; i <= n; i++ {
		b, err := f.booking.Book(context.Background(), member(fmt.Sprintf("m%d", i)), classID)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func (f *fixture) enrolled(t *testing.T, class *domain.GymClass) int {
	t.Helper()

	c, err := f.classes.GetByID(context.Background(), class.ID)
	require.NoError(t, err)
	return c.Enrolled
}

// slowClassRepository adds a fixed delay to the reads and seat writes of the
// in-memory store, which widens every race window the way a networked
// database does.
type slowClassRepository struct {
	*memory.ClassRepository
	delay time.Duration
}

func (r *slowClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GymClass, error) {
	time.Sleep(r.delay)
	return r.ClassRepository.GetByID(ctx, id)
}

func (r *slowClassRepository) ReserveSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	time.Sleep(r.delay)
	return r.ClassRepository.ReserveSeat(ctx, id)
}

func (r *slowClassRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	time.Sleep(r.delay)
	return r.ClassRepository.ReleaseSeat(ctx, id)
}
