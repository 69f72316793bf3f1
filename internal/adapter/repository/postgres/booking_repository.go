package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, class_id, class_name, user_id, user_name, user_email, status, created_at, updated_at`

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO class_bookings (` + bookingColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID, booking.ClassID, booking.ClassName, booking.UserID, booking.UserName,
		booking.UserEmail, booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyBooked
		}
		return fmt.Errorf("failed to insert booking: %w", storageErr(err))
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM class_bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "booking %s not found", id)
		}
		return nil, err
	}
	return b, nil
}

func (r *BookingRepository) FindActive(ctx context.Context, classID uuid.UUID, userID string) (*domain.Booking, error) {
	query := `
	SELECT ` + bookingColumns + `
	FROM class_bookings
	WHERE class_id = $1 AND user_id = $2 AND status IN ('booked', 'attended')
	LIMIT 1
	`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, classID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, at time.Time) error {
	query := `
	UPDATE class_bookings
	SET status = $1, updated_at = $4
	WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from, at)
	if err != nil {
		return storageErr(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrStorageConflict
	}

	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *BookingRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.Booking, error) {
	return r.list(ctx, `WHERE class_id = $1`, classID)
}

func (r *BookingRepository) list(ctx context.Context, where string, arg any) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM class_bookings ` + where + ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var userName, userEmail sql.NullString

	err := row.Scan(
		&b.ID,
		&b.ClassID,
		&b.ClassName,
		&b.UserID,
		&userName,
		&userEmail,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.UserName = userName.String
	b.UserEmail = userEmail.String
	return &b, nil
}
