package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func newTestSelector(records []models.LecturerAvailability) *slotSelector {
	period := models.SchedulingPeriod{AcademicYearID: "ay-1"}
	return &slotSelector{index: buildAvailabilityIndex(records, period, nil), rng: rand.New(rand.NewSource(1))}
}

func TestSlotSelectorAvoidsConsecutiveSlots(t *testing.T) {
	held := []models.TimeSlot{{ID: "mon-08", DayOfWeek: 1, StartTime: "08:00"}}
	free := []models.TimeSlot{
		{ID: "mon-10", DayOfWeek: 1, StartTime: "10:00"},
		{ID: "mon-13", DayOfWeek: 1, StartTime: "13:00"},
	}
	selector := newTestSelector(nil)

	for i := 0; i < 20; i++ {
		slot, ok := selector.Pick(free, held, map[int]int{}, dto.GenerateScheduleRequest{AvoidConsecutiveSessions: true, MaxDailySessions: 5})
		require.True(t, ok)
		assert.Equal(t, "mon-13", slot.ID)
	}
}

func TestSlotSelectorRespectsDailyCap(t *testing.T) {
	free := []models.TimeSlot{
		{ID: "mon-08", DayOfWeek: 1, StartTime: "08:00"},
		{ID: "tue-08", DayOfWeek: 2, StartTime: "08:00"},
	}
	selector := newTestSelector(nil)

	capped := dto.GenerateScheduleRequest{MaxDailySessions: 2, EnforceDailyCap: true}
	slot, ok := selector.Pick(free, nil, map[int]int{1: 2}, capped)
	require.True(t, ok)
	assert.Equal(t, "tue-08", slot.ID)

	_, ok = selector.Pick(free, nil, map[int]int{1: 2, 2: 2}, capped)
	assert.False(t, ok)
}

func TestSlotSelectorIgnoresDailyLoadByDefault(t *testing.T) {
	free := []models.TimeSlot{{ID: "mon-08", DayOfWeek: 1, StartTime: "08:00"}}
	selector := newTestSelector(nil)

	slot, ok := selector.Pick(free, nil, map[int]int{1: 5}, dto.GenerateScheduleRequest{MaxDailySessions: 1})
	require.True(t, ok)
	assert.Equal(t, "mon-08", slot.ID)
}

func TestSlotSelectorNarrowsToPreferredThenMorning(t *testing.T) {
	free := []models.TimeSlot{
		{ID: "mon-08", DayOfWeek: 1, StartTime: "08:00"},
		{ID: "mon-14", DayOfWeek: 1, StartTime: "14:00"},
		{ID: "tue-15", DayOfWeek: 2, StartTime: "15:00"},
	}
	selector := newTestSelector([]models.LecturerAvailability{
		{LecturerID: "l1", TimeSlotID: "mon-14", AcademicYearID: "ay-1", Status: models.AvailabilityPreferred},
		{LecturerID: "l1", TimeSlotID: "tue-15", AcademicYearID: "ay-1", Status: models.AvailabilityPreferred},
	})

	for i := 0; i < 20; i++ {
		slot, ok := selector.Pick(free, nil, nil, dto.GenerateScheduleRequest{PreferMorning: true})
		require.True(t, ok)
		// preferred narrowing runs first, so the afternoon preferred slots survive the morning filter
		assert.Contains(t, []string{"mon-14", "tue-15"}, slot.ID)
	}
}

func TestSlotSelectorPrefersMorningWhenRequested(t *testing.T) {
	free := []models.TimeSlot{
		{ID: "mon-08", DayOfWeek: 1, StartTime: "08:00"},
		{ID: "mon-14", DayOfWeek: 1, StartTime: "14:00"},
	}
	selector := newTestSelector(nil)

	for i := 0; i < 20; i++ {
		slot, ok := selector.Pick(free, nil, nil, dto.GenerateScheduleRequest{PreferMorning: true})
		require.True(t, ok)
		assert.Equal(t, "mon-08", slot.ID)
	}
}

func TestSlotSelectorEmptyInput(t *testing.T) {
	_, ok := newTestSelector(nil).Pick(nil, nil, nil, dto.GenerateScheduleRequest{})
	assert.False(t, ok)
}
