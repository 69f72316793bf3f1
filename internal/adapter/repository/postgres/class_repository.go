package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
)

type ClassRepository struct {
	db *sql.DB
}

func NewClassRepository(db *sql.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, name, description, class_type, instructor_id, instructor_name,
	starts_at, ends_at, location, capacity, enrolled, status, version, created_at, updated_at`

func (r *ClassRepository) Create(ctx context.Context, class *domain.GymClass) error {
	query := `
	INSERT INTO gym_classes (` + classColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		class.ID, class.Name, class.Description, class.Type, class.InstructorID, class.InstructorName,
		class.StartsAt, class.EndsAt, class.Location, class.Capacity, class.Enrolled, class.Status,
		class.Version, class.CreatedAt, class.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert class: %w", err)
	}
	return nil
}

func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GymClass, error) {
	query := `SELECT ` + classColumns + ` FROM gym_classes WHERE id = $1`

	class, err := scanClass(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "class %s not found", id)
		}
		return nil, err
	}
	return class, nil
}

func (r *ClassRepository) List(ctx context.Context, filter ports.ClassFilter) ([]domain.GymClass, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !filter.From.IsZero() {
		add("starts_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("starts_at < $%d", filter.To)
	}
	if filter.Type != "" {
		add("class_type = $%d", filter.Type)
	}
	if filter.InstructorID != "" {
		add("instructor_id = $%d", filter.InstructorID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("status = ANY($%d)", pq.Array(statuses))
	}

	query := `SELECT ` + classColumns + ` FROM gym_classes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY starts_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []domain.GymClass
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *class)
	}

	return classes, rows.Err()
}

func (r *ClassRepository) UpdateDetails(ctx context.Context, class *domain.GymClass, expectedVersion int) error {
	query := `
	UPDATE gym_classes
	SET name = $1,
		description = $2,
		class_type = $3,
		instructor_id = $4,
		instructor_name = $5,
		starts_at = $6,
		ends_at = $7,
		location = $8,
		capacity = $9,
		status = $10,
		updated_at = $11,
		version = version + 1
	WHERE id = $12 AND version = $13 AND enrolled <= $9
	RETURNING enrolled, version
	`

	err := r.db.QueryRowContext(ctx, query,
		class.Name, class.Description, class.Type, class.InstructorID, class.InstructorName,
		class.StartsAt, class.EndsAt, class.Location, class.Capacity, class.Status, class.UpdatedAt,
		class.ID, expectedVersion,
	).Scan(&class.Enrolled, &class.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return r.missOrConflict(ctx, class.ID)
	}
	return err
}

// reserveSeatQuery and releaseSeatQuery move enrolled by one inside a single
// guarded UPDATE. The row lock serializes concurrent callers, so a reserve
// only misses when the class is full or closed at the moment it runs.
const (
	reserveSeatQuery = `
	UPDATE gym_classes
	SET enrolled = enrolled + 1,
		updated_at = NOW()
	WHERE id = $1 AND enrolled < capacity AND status IN ('scheduled', 'ongoing')
	`

	releaseSeatQuery = `
	UPDATE gym_classes
	SET enrolled = enrolled - 1,
		updated_at = NOW()
	WHERE id = $1 AND enrolled > 0
	`
)

func (r *ClassRepository) ReserveSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.stepEnrolled(ctx, reserveSeatQuery, id)
}

func (r *ClassRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.stepEnrolled(ctx, releaseSeatQuery, id)
}

func (r *ClassRepository) stepEnrolled(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, storageErr(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (r *ClassRepository) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM gym_classes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.NewError(domain.KindNotFound, "class %s not found", id)
	}
	return domain.ErrStorageConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (*domain.GymClass, error) {
	var c domain.GymClass
	var description, location sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Name,
		&description,
		&c.Type,
		&c.InstructorID,
		&c.InstructorName,
		&c.StartsAt,
		&c.EndsAt,
		&location,
		&c.Capacity,
		&c.Enrolled,
		&c.Status,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.Location = location.String
	c.StartsAt = c.StartsAt.UTC()
	c.EndsAt = c.EndsAt.UTC()

	return &c, nil
}
