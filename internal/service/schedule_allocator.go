package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// errNoResourceAvailable marks a non-fatal allocation attempt failure.
var errNoResourceAvailable = errors.New("no resource available")

type bookedClassroomFinder interface {
	BookedClassroomIDs(ctx context.Context, date time.Time, timeSlotID string) ([]string, error)
}

type bookingKey struct {
	ClassroomID string
	TimeSlotID  string
	Date        string
}

func newBookingKey(classroomID, timeSlotID string, date time.Time) bookingKey {
	return bookingKey{ClassroomID: classroomID, TimeSlotID: timeSlotID, Date: date.Format("2006-01-02")}
}

// resourceAllocator resolves the lecturer and classroom for a chosen slot.
type resourceAllocator struct {
	index    *availabilityIndex
	bookings bookedClassroomFinder
	rng      *rand.Rand
}

// ResolveLecturer picks uniformly among lecturers available or preferring the slot.
func (a *resourceAllocator) ResolveLecturer(slotID string) (string, error) {
	candidates := a.index.LecturersFor(slotID)
	if len(candidates) == 0 {
		return "", fmt.Errorf("lecturer for slot %s: %w", slotID, errNoResourceAvailable)
	}
	return candidates[a.rng.Intn(len(candidates))], nil
}

// ResolveClassroom returns the first free classroom for the slot on date. rooms must already be ordered
// by capacity ascending. reserved holds bookings made earlier in the same run.
func (a *resourceAllocator) ResolveClassroom(
	ctx context.Context,
	rooms []models.Classroom,
	slot models.TimeSlot,
	date time.Time,
	reserved map[bookingKey]bool,
	minCapacity int,
) (models.Classroom, error) {
	booked := make(map[string]bool)
	if a.bookings != nil {
		ids, err := a.bookings.BookedClassroomIDs(ctx, date, slot.ID)
		if err != nil {
			return models.Classroom{}, err
		}
		for _, id := range ids {
			booked[id] = true
		}
	}
	for _, room := range rooms {
		if !room.Active || booked[room.ID] || reserved[newBookingKey(room.ID, slot.ID, date)] {
			continue
		}
		if minCapacity > 0 && room.Capacity < minCapacity {
			continue
		}
		return room, nil
	}
	return models.Classroom{}, fmt.Errorf("classroom for slot %s on %s: %w", slot.ID, date.Format("2006-01-02"), errNoResourceAvailable)
}
