package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SchedulingPeriodRepository reads scheduling periods and flips their generation state.
type SchedulingPeriodRepository struct {
	db *sqlx.DB
}

// NewSchedulingPeriodRepository constructs the repository.
func NewSchedulingPeriodRepository(db *sqlx.DB) *SchedulingPeriodRepository {
	return &SchedulingPeriodRepository{db: db}
}

func (r *SchedulingPeriodRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID loads a scheduling period.
func (r *SchedulingPeriodRepository) FindByID(ctx context.Context, id string) (*models.SchedulingPeriod, error) {
	const query = `SELECT id, level_id, academic_year_id, start_date, end_date, duration, status, generated, version, created_at, updated_at FROM scheduling_periods WHERE id = $1`
	var period models.SchedulingPeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// MarkGenerated activates the period and sets generated=true when the stored version still
// matches expectedVersion. It returns sql.ErrNoRows when another writer got there first.
func (r *SchedulingPeriodRepository) MarkGenerated(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int) error {
	return r.transition(ctx, exec, id, expectedVersion, true, models.SchedulingPeriodStatusActive)
}

// ResetGeneration returns the period to draft with generated=false under the same version guard.
func (r *SchedulingPeriodRepository) ResetGeneration(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int) error {
	return r.transition(ctx, exec, id, expectedVersion, false, models.SchedulingPeriodStatusDraft)
}

func (r *SchedulingPeriodRepository) transition(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int, generated bool, status models.SchedulingPeriodStatus) error {
	const query = `UPDATE scheduling_periods SET generated = $1, status = $2, version = version + 1, updated_at = $3 WHERE id = $4 AND version = $5`
	result, err := r.exec(exec).ExecContext(ctx, query, generated, status, time.Now().UTC(), id, expectedVersion)
	if err != nil {
		return fmt.Errorf("update scheduling period state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("scheduling period rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
