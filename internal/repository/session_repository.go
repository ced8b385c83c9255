package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ErrDuplicateBooking is returned when a classroom already holds a session on the same slot and date.
var ErrDuplicateBooking = errors.New("classroom already booked for slot and date")

const uniqueViolation = "23505"

// SessionRepository persists generated sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a session. The (classroom_id, time_slot_id, date) unique index rejects double-booking.
func (r *SessionRepository) Create(ctx context.Context, exec sqlx.ExtContext, session *models.Session) error {
	if session == nil {
		return fmt.Errorf("session payload is nil")
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO sessions (id, scheduling_period_id, course_id, lecturer_id, classroom_id, time_slot_id, date, created_at)
VALUES (:id, :scheduling_period_id, :course_id, :lecturer_id, :classroom_id, :time_slot_id, :date, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, session); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert session %s: %w", pqErr.Constraint, ErrDuplicateBooking)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// BookedClassroomIDs returns classrooms already holding a session on the date and slot.
func (r *SessionRepository) BookedClassroomIDs(ctx context.Context, date time.Time, timeSlotID string) ([]string, error) {
	const query = `SELECT classroom_id FROM sessions WHERE date = $1 AND time_slot_id = $2`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, date, timeSlotID); err != nil {
		return nil, fmt.Errorf("list booked classrooms: %w", err)
	}
	return ids, nil
}

// ListDetailsByPeriod returns the sessions of a period joined with reference data.
func (r *SessionRepository) ListDetailsByPeriod(ctx context.Context, periodID string) ([]models.SessionDetail, error) {
	const query = `SELECT s.id, pa.week_number, s.date, ts.day_of_week, ts.start_time, ts.end_time,
       s.course_id, c.name AS course_name, s.lecturer_id, l.full_name AS lecturer_name,
       s.classroom_id, cr.name AS classroom_name
FROM sessions s
JOIN period_assignments pa ON pa.session_id = s.id
JOIN time_slots ts ON ts.id = s.time_slot_id
JOIN courses c ON c.id = s.course_id
JOIN lecturers l ON l.id = s.lecturer_id
JOIN classrooms cr ON cr.id = s.classroom_id
WHERE pa.scheduling_period_id = $1
ORDER BY s.date ASC, ts.start_time ASC, cr.name ASC`
	var details []models.SessionDetail
	if err := r.db.SelectContext(ctx, &details, query, periodID); err != nil {
		return nil, fmt.Errorf("list sessions by period: %w", err)
	}
	return details, nil
}

// DeleteByPeriod removes every session generated for the period and returns the count.
func (r *SessionRepository) DeleteByPeriod(ctx context.Context, exec sqlx.ExtContext, periodID string) (int64, error) {
	const query = `DELETE FROM sessions WHERE scheduling_period_id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, periodID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions by period: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("session rows affected: %w", err)
	}
	return affected, nil
}
