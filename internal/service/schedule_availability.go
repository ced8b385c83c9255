package service

import (
	"sort"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// availabilityIndex maps lecturer -> time slot -> schedulable availability record.
// It is built once per generation run and never mutated afterwards.
type availabilityIndex struct {
	byLecturer map[string]map[string]models.LecturerAvailability
	bySlot     map[string][]string
	preferred  map[string]bool
}

// buildAvailabilityIndex keeps available/preferred records of the period's academic year whose
// optional date range overlaps the period. When lecturers is non-empty, records of lecturers
// outside that set are dropped.
func buildAvailabilityIndex(records []models.LecturerAvailability, period models.SchedulingPeriod, lecturers []models.Lecturer) *availabilityIndex {
	var activeLecturers map[string]bool
	if len(lecturers) > 0 {
		activeLecturers = make(map[string]bool, len(lecturers))
		for _, lecturer := range lecturers {
			activeLecturers[lecturer.ID] = true
		}
	}

	idx := &availabilityIndex{
		byLecturer: make(map[string]map[string]models.LecturerAvailability),
		bySlot:     make(map[string][]string),
		preferred:  make(map[string]bool),
	}
	for _, record := range records {
		if record.AcademicYearID != period.AcademicYearID || !record.Schedulable() {
			continue
		}
		if !record.Overlaps(period.StartDate, period.EndDate) {
			continue
		}
		if activeLecturers != nil && !activeLecturers[record.LecturerID] {
			continue
		}
		slots := idx.byLecturer[record.LecturerID]
		if slots == nil {
			slots = make(map[string]models.LecturerAvailability)
			idx.byLecturer[record.LecturerID] = slots
		}
		if _, seen := slots[record.TimeSlotID]; !seen {
			idx.bySlot[record.TimeSlotID] = append(idx.bySlot[record.TimeSlotID], record.LecturerID)
		}
		// preferred wins over available when a lecturer has both for one slot
		if existing, seen := slots[record.TimeSlotID]; !seen || existing.Status != models.AvailabilityPreferred {
			slots[record.TimeSlotID] = record
		}
		if record.Status == models.AvailabilityPreferred {
			idx.preferred[record.TimeSlotID] = true
		}
	}
	for slotID := range idx.bySlot {
		sort.Strings(idx.bySlot[slotID])
	}
	return idx
}

// LecturersFor returns the lecturers schedulable on the slot, sorted by id.
func (i *availabilityIndex) LecturersFor(slotID string) []string {
	return i.bySlot[slotID]
}

// IsPreferred reports whether at least one lecturer marked the slot as preferred.
func (i *availabilityIndex) IsPreferred(slotID string) bool {
	return i.preferred[slotID]
}

// Size returns the number of indexed (lecturer, slot) pairs.
func (i *availabilityIndex) Size() int {
	total := 0
	for _, slots := range i.byLecturer {
		total += len(slots)
	}
	return total
}
