package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestBuildAvailabilityIndexFiltersRecords(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	period := models.SchedulingPeriod{AcademicYearID: "ay-1", StartDate: start, EndDate: start.AddDate(0, 0, 14)}
	before := start.AddDate(0, -1, 0)
	after := start.AddDate(0, 1, 0)

	records := []models.LecturerAvailability{
		{LecturerID: "l2", TimeSlotID: "s1", AcademicYearID: "ay-1", Status: models.AvailabilityAvailable},
		{LecturerID: "l1", TimeSlotID: "s1", AcademicYearID: "ay-1", Status: models.AvailabilityAvailable},
		{LecturerID: "l1", TimeSlotID: "s1", AcademicYearID: "ay-1", Status: models.AvailabilityPreferred},
		{LecturerID: "l1", TimeSlotID: "s2", AcademicYearID: "ay-2", Status: models.AvailabilityAvailable},
		{LecturerID: "l1", TimeSlotID: "s3", AcademicYearID: "ay-1", Status: models.AvailabilityUnavailable},
		{LecturerID: "l1", TimeSlotID: "s4", AcademicYearID: "ay-1", Status: models.AvailabilityAvailable, EndDate: &before},
		{LecturerID: "l1", TimeSlotID: "s5", AcademicYearID: "ay-1", Status: models.AvailabilityAvailable, StartDate: &after},
		{LecturerID: "retired", TimeSlotID: "s1", AcademicYearID: "ay-1", Status: models.AvailabilityAvailable},
	}
	idx := buildAvailabilityIndex(records, period, []models.Lecturer{{ID: "l1"}, {ID: "l2"}})

	assert.Equal(t, []string{"l1", "l2"}, idx.LecturersFor("s1"))
	assert.True(t, idx.IsPreferred("s1"))
	assert.Equal(t, models.AvailabilityPreferred, idx.byLecturer["l1"]["s1"].Status)

	for _, slot := range []string{"s2", "s3", "s4", "s5"} {
		assert.Empty(t, idx.LecturersFor(slot), slot)
	}
	assert.Equal(t, 2, idx.Size())
}

func TestBuildAvailabilityIndexWithoutLecturerFilter(t *testing.T) {
	period := models.SchedulingPeriod{AcademicYearID: "ay-1"}
	idx := buildAvailabilityIndex([]models.LecturerAvailability{
		{LecturerID: "l9", TimeSlotID: "s1", AcademicYearID: "ay-1", Status: models.AvailabilityAvailable},
	}, period, nil)

	assert.Equal(t, []string{"l9"}, idx.LecturersFor("s1"))
	assert.False(t, idx.IsPreferred("s1"))
}
