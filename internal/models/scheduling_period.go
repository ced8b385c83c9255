package models

import "time"

// SchedulingPeriodStatus represents lifecycle phases for a scheduling period.
type SchedulingPeriodStatus string

const (
	SchedulingPeriodStatusDraft    SchedulingPeriodStatus = "draft"
	SchedulingPeriodStatusActive   SchedulingPeriodStatus = "active"
	SchedulingPeriodStatusArchived SchedulingPeriodStatus = "archived"
)

// SchedulingPeriod is the date-bounded window sessions are generated for.
type SchedulingPeriod struct {
	ID             string                 `db:"id" json:"id"`
	LevelID        string                 `db:"level_id" json:"level_id"`
	AcademicYearID string                 `db:"academic_year_id" json:"academic_year_id"`
	StartDate      time.Time              `db:"start_date" json:"start_date"`
	EndDate        time.Time              `db:"end_date" json:"end_date"`
	Duration       string                 `db:"duration" json:"duration"`
	Status         SchedulingPeriodStatus `db:"status" json:"status"`
	Generated      bool                   `db:"generated" json:"generated"`
	Version        int                    `db:"version" json:"version"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
}

// DurationDays returns the number of whole days between start and end date.
func (p SchedulingPeriod) DurationDays() int {
	days := int(p.EndDate.Sub(p.StartDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// TotalWeeks returns the number of scheduling weeks, never less than one.
func (p SchedulingPeriod) TotalWeeks() int {
	weeks := p.DurationDays() / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

// DateFor resolves the calendar date of the given weekday inside a 1-based week.
// Week N covers the seven days starting at StartDate + (N-1)*7.
func (p SchedulingPeriod) DateFor(week, dayOfWeek int) time.Time {
	start := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := start.AddDate(0, 0, (week-1)*7)
	isoDay := (int(weekStart.Weekday())+6)%7 + 1
	return weekStart.AddDate(0, 0, (dayOfWeek-isoDay+7)%7)
}
