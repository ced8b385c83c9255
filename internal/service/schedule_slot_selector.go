package service

import (
	"math/rand"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const (
	consecutiveHourWindow = 2
	morningCutoffHour     = 12
)

// slotSelector proposes a time slot for one placement of a course within a week.
type slotSelector struct {
	index *availabilityIndex
	rng   *rand.Rand
}

// Pick filters free by the consecutive, preferred and morning policies, then samples uniformly.
// held lists the slots the course already occupies this week; dayLoad counts sessions per weekday
// this week and only matters when EnforceDailyCap is set.
func (s *slotSelector) Pick(free, held []models.TimeSlot, dayLoad map[int]int, opts dto.GenerateScheduleRequest) (models.TimeSlot, bool) {
	candidates := make([]models.TimeSlot, 0, len(free))
	for _, slot := range free {
		if opts.AvoidConsecutiveSessions && adjacentToAny(slot, held) {
			continue
		}
		if opts.EnforceDailyCap && opts.MaxDailySessions > 0 && dayLoad[slot.DayOfWeek] >= opts.MaxDailySessions {
			continue
		}
		candidates = append(candidates, slot)
	}

	candidates = narrow(candidates, func(slot models.TimeSlot) bool {
		return s.index.IsPreferred(slot.ID)
	})
	if opts.PreferMorning {
		candidates = narrow(candidates, func(slot models.TimeSlot) bool {
			hour := slot.StartHour()
			return hour >= 0 && hour < morningCutoffHour
		})
	}

	if len(candidates) == 0 {
		return models.TimeSlot{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

// adjacentToAny reports whether slot sits on the same day as a held slot and starts within two hours of it.
func adjacentToAny(slot models.TimeSlot, held []models.TimeSlot) bool {
	for _, used := range held {
		if used.DayOfWeek != slot.DayOfWeek {
			continue
		}
		delta := slot.StartHour() - used.StartHour()
		if delta < 0 {
			delta = -delta
		}
		if delta <= consecutiveHourWindow {
			return true
		}
	}
	return false
}

// narrow keeps the matching slots, or returns slots unchanged when none match.
func narrow(slots []models.TimeSlot, keep func(models.TimeSlot) bool) []models.TimeSlot {
	matched := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if keep(slot) {
			matched = append(matched, slot)
		}
	}
	if len(matched) == 0 {
		return slots
	}
	return matched
}
