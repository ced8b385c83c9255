package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimeSlotRepository reads weekly time slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs the repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListActiveWeekdays returns active Monday-Friday slots ordered by day and start time.
func (r *TimeSlotRepository) ListActiveWeekdays(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, day_of_week, start_time, end_time, active FROM time_slots WHERE active = TRUE AND day_of_week BETWEEN 1 AND 5 ORDER BY day_of_week ASC, start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list active time slots: %w", err)
	}
	return slots, nil
}
