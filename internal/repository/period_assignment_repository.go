package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// PeriodAssignmentRepository links sessions to scheduling period weeks.
type PeriodAssignmentRepository struct {
	db *sqlx.DB
}

// NewPeriodAssignmentRepository constructs the repository.
func NewPeriodAssignmentRepository(db *sqlx.DB) *PeriodAssignmentRepository {
	return &PeriodAssignmentRepository{db: db}
}

func (r *PeriodAssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a period assignment.
func (r *PeriodAssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.PeriodAssignment) error {
	if assignment == nil {
		return fmt.Errorf("period assignment payload is nil")
	}
	if assignment.SchedulingPeriodID == "" || assignment.SessionID == "" {
		return fmt.Errorf("scheduling_period_id and session_id are required")
	}
	if assignment.WeekNumber < 1 {
		return fmt.Errorf("week_number must be >= 1")
	}
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO period_assignments (id, scheduling_period_id, session_id, week_number, recurring, created_at)
VALUES (:id, :scheduling_period_id, :session_id, :week_number, :recurring, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, assignment); err != nil {
		return fmt.Errorf("insert period assignment: %w", err)
	}
	return nil
}

// DeleteByPeriod removes all assignments of a period.
func (r *PeriodAssignmentRepository) DeleteByPeriod(ctx context.Context, exec sqlx.ExtContext, periodID string) error {
	const query = `DELETE FROM period_assignments WHERE scheduling_period_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, periodID); err != nil {
		return fmt.Errorf("delete period assignments: %w", err)
	}
	return nil
}
