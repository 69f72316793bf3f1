package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(classID uuid.UUID, userID string, at time.Time) *domain.Booking {
	return &domain.Booking{
		ID:        uuid.New(),
		ClassID:   classID,
		UserID:    userID,
		Status:    domain.BookingBooked,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestBookingRepository_OneSeatPerMember(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	classID := uuid.New()

	first := newBooking(classID, "m1", start)
	require.NoError(t, repo.CreateBooking(ctx, first))
	assert.ErrorIs(t, repo.CreateBooking(ctx, newBooking(classID, "m1", start)), domain.ErrAlreadyBooked)
	assert.NoError(t, repo.CreateBooking(ctx, newBooking(uuid.New(), "m1", start)))

	active, err := repo.FindActive(ctx, classID, "m1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.BookingBooked, domain.BookingCancelled, start))
	_, err = repo.FindActive(ctx, classID, "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, repo.CreateBooking(ctx, newBooking(classID, "m1", start.Add(time.Minute))))
}

func TestBookingRepository_UpdateStatusIsConditional(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	b := newBooking(uuid.New(), "m1", start)
	require.NoError(t, repo.CreateBooking(ctx, b))

	at := start.Add(90 * time.Minute)
	require.NoError(t, repo.UpdateStatus(ctx, b.ID, domain.BookingBooked, domain.BookingAttended, at))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, b.ID, domain.BookingBooked, domain.BookingCancelled, at.Add(time.Hour)), domain.ErrStorageConflict)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), domain.BookingBooked, domain.BookingCancelled, at), domain.ErrNotFound)

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAttended, stored.Status)
	assert.Equal(t, at, stored.UpdatedAt)
}

func TestBookingRepository_ListsNewestFirst(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	classID := uuid.New()
	older := newBooking(classID, "m1", start)
	newer := newBooking(classID, "m2", start.Add(time.Hour))
	require.NoError(t, repo.CreateBooking(ctx, older))
	require.NoError(t, repo.CreateBooking(ctx, newer))

	byClass, err := repo.ListByClass(ctx, classID)
	require.NoError(t, err)
	require.Len(t, byClass, 2)
	assert.Equal(t, newer.ID, byClass[0].ID)

	byUser, err := repo.ListByUser(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, older.ID, byUser[0].ID)
}
