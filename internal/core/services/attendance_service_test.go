package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports/mocks"
	"github.com/srgjo27/gym_booking/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordAttendance_MarksPresentMembers(t *testing.T) {
	f := newFixture(t, services.Hooks{})
	ctx := context.Background()
	class := f.addClass(t, "Circuit", 5, time.Hour)
	booked := f.bookMembers(t, class.ID, 3)
	require.NoError(t, f.booking.Cancel(ctx, member("m3"), booked[2].ID))

	f.clock.Advance(time.Hour + 10*time.Minute)

	result, err := f.rollCall.RecordAttendance(ctx, trainer, class.ID, []string{"m1", "ghost"})
	require.NoError(t, err)

	require.Len(t, result.Recorded, 2)
	assert.Equal(t, []string{"ghost"}, result.Unmatched)
	assert.Empty(t, result.Failed)

	byMember := map[string]domain.AttendanceRecord{}
	for _, rec := range result.Recorded {
		assert.Equal(t, result.RollCallID, rec.RollCallID)
		assert.Equal(t, trainer.UserID, rec.TrainerID)
		byMember[rec.MemberID] = rec
	}
	assert.True(t, byMember["m1"].Present)
	assert.False(t, byMember["m2"].Present)

	m1, err := f.bookings.GetByID(ctx, booked[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAttended, m1.Status)

	m2, err := f.bookings.GetByID(ctx, booked[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingBooked, m2.Status)

	assert.Equal(t, 2, f.enrolled(t, class))

	stored, err := f.rollCall.ListAttendance(ctx, class.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRecordAttendance_OneRecordFails(t *testing.T) {
	f := newFixture(t, services.Hooks{})
	ctx := context.Background()
	class := f.addClass(t, "Circuit", 5, time.Hour)
	booked := f.bookMembers(t, class.ID, 3)

	attendanceRepo := mocks.NewAttendanceRepository(t)
	rollCall := services.NewAttendanceService(f.classes, attendanceRepo, f.booking, f.clock, services.Hooks{})

	forMember := func(id string) interface{} {
		return mock.MatchedBy(func(r *domain.AttendanceRecord) bool { return r.MemberID == id })
	}
	attendanceRepo.On("Append", ctx, forMember("m1")).Return(nil).Once()
	attendanceRepo.On("Append", ctx, forMember("m2")).Return(errors.New("disk full")).Once()
	attendanceRepo.On("Append", ctx, forMember("m3")).Return(nil).Once()

	f.clock.Advance(time.Hour)

	result, err := rollCall.RecordAttendance(ctx, trainer, class.ID, []string{"m1", "m2", "m3"})

	assert.ErrorIs(t, err, domain.ErrPartialFailure)
	require.NotNil(t, result)
	assert.Len(t, result.Recorded, 2)
	require.Contains(t, result.Failed, "m2")
	assert.EqualError(t, result.Failed["m2"], "disk full")

	want := map[string]domain.BookingStatus{
		booked[0].ID.String(): domain.BookingAttended,
		booked[1].ID.String(): domain.BookingBooked,
		booked[2].ID.String(): domain.BookingAttended,
	}
	for _, b := range booked {
		stored, err := f.bookings.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, want[b.ID.String()], stored.Status, stored.UserID)
	}
	assert.Equal(t, 3, f.enrolled(t, class))
}

func TestRecordAttendance_Preconditions(t *testing.T) {
	f := newFixture(t, services.Hooks{})
	ctx := context.Background()
	class := f.addClass(t, "Circuit", 5, time.Hour)
	f.bookMembers(t, class.ID, 1)

	_, err := f.rollCall.RecordAttendance(ctx, trainer, class.ID, []string{"m1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "class has not started")

	f.clock.Advance(time.Hour)

	_, err = f.rollCall.RecordAttendance(ctx, member("m1"), class.ID, []string{"m1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.catalog.TransitionStatus(ctx, admin, class.ID, domain.ClassCancelled)
	require.NoError(t, err)

	_, err = f.rollCall.RecordAttendance(ctx, trainer, class.ID, []string{"m1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	records, err := f.rollCall.ListAttendance(ctx, class.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordAttendance_SecondRollCallKeepsHistory(t *testing.T) {
	f := newFixture(t, services.Hooks{})
	ctx := context.Background()
	class := f.addClass(t, "Circuit", 5, time.Hour)
	f.bookMembers(t, class.ID, 2)
	f.clock.Advance(time.Hour)

	first, err := f.rollCall.RecordAttendance(ctx, trainer, class.ID, []string{"m1"})
	require.NoError(t, err)
	second, err := f.rollCall.RecordAttendance(ctx, trainer, class.ID, []string{"m1", "m2"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RollCallID, second.RollCallID)

	records, err := f.rollCall.ListAttendance(ctx, class.ID)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, 2, f.enrolled(t, class))
}

func TestListAttendance_UnknownClass(t *testing.T) {
	f := newFixture(t, services.Hooks{})

	_, err := f.rollCall.ListAttendance(context.Background(), openClass(1, 0, 1).ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
