package models

import "time"

// Session is a concrete occurrence of a course on a date, slot, classroom and lecturer.
type Session struct {
	ID                 string    `db:"id" json:"id"`
	SchedulingPeriodID string    `db:"scheduling_period_id" json:"scheduling_period_id"`
	CourseID           string    `db:"course_id" json:"course_id"`
	LecturerID         string    `db:"lecturer_id" json:"lecturer_id"`
	ClassroomID        string    `db:"classroom_id" json:"classroom_id"`
	TimeSlotID         string    `db:"time_slot_id" json:"time_slot_id"`
	Date               time.Time `db:"date" json:"date"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// PeriodAssignment links a session to its scheduling period and 1-based week.
type PeriodAssignment struct {
	ID                 string    `db:"id" json:"id"`
	SchedulingPeriodID string    `db:"scheduling_period_id" json:"scheduling_period_id"`
	SessionID          string    `db:"session_id" json:"session_id"`
	WeekNumber         int       `db:"week_number" json:"week_number"`
	Recurring          bool      `db:"recurring" json:"recurring"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SessionDetail is a read model joining a session with its reference data.
type SessionDetail struct {
	ID            string    `db:"id" json:"id"`
	WeekNumber    int       `db:"week_number" json:"week_number"`
	Date          time.Time `db:"date" json:"date"`
	DayOfWeek     int       `db:"day_of_week" json:"day_of_week"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	CourseID      string    `db:"course_id" json:"course_id"`
	CourseName    string    `db:"course_name" json:"course_name"`
	LecturerID    string    `db:"lecturer_id" json:"lecturer_id"`
	LecturerName  string    `db:"lecturer_name" json:"lecturer_name"`
	ClassroomID   string    `db:"classroom_id" json:"classroom_id"`
	ClassroomName string    `db:"classroom_name" json:"classroom_name"`
}
