package models

import (
	"strconv"
	"strings"
)

// TimeSlot is a recurring weekly window. DayOfWeek uses 1=Monday .. 7=Sunday.
type TimeSlot struct {
	ID        string `db:"id" json:"id"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Active    bool   `db:"active" json:"active"`
}

// IsWeekday reports whether the slot falls between Monday and Friday.
func (t TimeSlot) IsWeekday() bool {
	return t.DayOfWeek >= 1 && t.DayOfWeek <= 5
}

// StartHour parses the hour component of StartTime ("08:30" -> 8). Unparseable values yield -1.
func (t TimeSlot) StartHour() int {
	raw := strings.TrimSpace(t.StartTime)
	if idx := strings.Index(raw, ":"); idx >= 0 {
		raw = raw[:idx]
	}
	hour, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return hour
}

var weekdayNames = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

// DayName returns the upper-case weekday name of the slot.
func (t TimeSlot) DayName() string {
	if name, ok := weekdayNames[t.DayOfWeek]; ok {
		return name
	}
	return ""
}
