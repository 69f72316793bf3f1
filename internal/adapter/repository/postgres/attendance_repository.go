package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

// AttendanceRepository only ever inserts. There is no update or delete path.
type AttendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Append(ctx context.Context, rec *domain.AttendanceRecord) error {
	query := `
	INSERT INTO attendance_records (id, roll_call_id, class_id, class_name, member_id, member_name, trainer_id, present, session_date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RollCallID, rec.ClassID, rec.ClassName, rec.MemberID, rec.MemberName,
		rec.TrainerID, rec.Present, rec.SessionDate, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attendance for member %s: %w", rec.MemberID, err)
	}
	return nil
}

func (r *AttendanceRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]domain.AttendanceRecord, error) {
	query := `
	SELECT id, roll_call_id, class_id, class_name, member_id, member_name, trainer_id, present, session_date, created_at
	FROM attendance_records
	WHERE class_id = $1
	ORDER BY created_at ASC, member_id
	`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		var memberName sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.RollCallID,
			&rec.ClassID,
			&rec.ClassName,
			&rec.MemberID,
			&memberName,
			&rec.TrainerID,
			&rec.Present,
			&rec.SessionDate,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.MemberName = memberName.String
		records = append(records, rec)
	}

	return records, rows.Err()
}
