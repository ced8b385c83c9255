package models

import "time"

// Lecturer is a teaching staff member referenced by generated sessions.
type Lecturer struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Active   bool   `db:"active" json:"active"`
}

// AvailabilityStatus marks a lecturer's stance on a time slot.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
	AvailabilityPreferred   AvailabilityStatus = "preferred"
)

// LecturerAvailability stores a lecturer's status for a slot within an academic year,
// optionally bounded by a date sub-range.
type LecturerAvailability struct {
	ID             string             `db:"id" json:"id"`
	LecturerID     string             `db:"lecturer_id" json:"lecturer_id"`
	TimeSlotID     string             `db:"time_slot_id" json:"time_slot_id"`
	AcademicYearID string             `db:"academic_year_id" json:"academic_year_id"`
	Status         AvailabilityStatus `db:"status" json:"status"`
	StartDate      *time.Time         `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time         `db:"end_date" json:"end_date,omitempty"`
}

// Schedulable reports whether the status allows placing a session.
func (a LecturerAvailability) Schedulable() bool {
	return a.Status == AvailabilityAvailable || a.Status == AvailabilityPreferred
}

// Overlaps reports whether the optional date sub-range intersects [from, to].
func (a LecturerAvailability) Overlaps(from, to time.Time) bool {
	if a.StartDate != nil && a.StartDate.After(to) {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(from) {
		return false
	}
	return true
}
