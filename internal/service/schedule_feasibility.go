package service

import (
	"fmt"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const schoolDaysPerWeek = 5

type feasibilityInput struct {
	Courses          int
	SessionsPerWeek  int
	ActiveSlots      int
	ActiveClassrooms int
	MaxDailySessions int
}

// weeklyCapacity is min(active slots, daily cap * school days).
func (in feasibilityInput) weeklyCapacity() int {
	capacity := in.MaxDailySessions * schoolDaysPerWeek
	if in.ActiveSlots < capacity {
		return in.ActiveSlots
	}
	return capacity
}

// checkFeasibility rejects loads that cannot fit the weekly supply before anything is allocated.
func checkFeasibility(in feasibilityInput) error {
	if in.ActiveSlots == 0 {
		return appErrors.Clone(appErrors.ErrInfeasible, "no active weekday time slots available")
	}
	if in.ActiveClassrooms == 0 {
		return appErrors.Clone(appErrors.ErrInfeasible, "no active classrooms available")
	}
	needed := in.Courses * in.SessionsPerWeek
	capacity := in.weeklyCapacity()
	if needed > capacity {
		return appErrors.Clone(appErrors.ErrInfeasible, fmt.Sprintf(
			"infeasible load: %d courses x %d sessions per week needs %d slots but weekly capacity is %d",
			in.Courses, in.SessionsPerWeek, needed, capacity,
		))
	}
	return nil
}
