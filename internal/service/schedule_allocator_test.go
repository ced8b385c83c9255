package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type bookedClassroomsStub struct {
	ids []string
	err error
}

func (s bookedClassroomsStub) BookedClassroomIDs(ctx context.Context, date time.Time, timeSlotID string) ([]string, error) {
	return s.ids, s.err
}

func TestResourceAllocatorResolveLecturer(t *testing.T) {
	idx := buildAvailabilityIndex([]models.LecturerAvailability{
		{LecturerID: "l1", TimeSlotID: "s1", AcademicYearID: "ay", Status: models.AvailabilityAvailable},
		{LecturerID: "l2", TimeSlotID: "s1", AcademicYearID: "ay", Status: models.AvailabilityPreferred},
	}, models.SchedulingPeriod{AcademicYearID: "ay"}, nil)
	allocator := &resourceAllocator{index: idx, rng: rand.New(rand.NewSource(3))}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := allocator.ResolveLecturer("s1")
		require.NoError(t, err)
		seen[id] = true
	}
	assert.Equal(t, map[string]bool{"l1": true, "l2": true}, seen)

	_, err := allocator.ResolveLecturer("s2")
	assert.True(t, errors.Is(err, errNoResourceAvailable))
}

func TestResourceAllocatorResolveClassroom(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	slot := models.TimeSlot{ID: "s1", DayOfWeek: 1}
	rooms := []models.Classroom{
		{ID: "r-small", Capacity: 20, Active: true},
		{ID: "r-mid", Capacity: 30, Active: true},
		{ID: "r-inactive", Capacity: 35, Active: false},
		{ID: "r-large", Capacity: 40, Active: true},
	}

	t.Run("smallest free room", func(t *testing.T) {
		allocator := &resourceAllocator{bookings: bookedClassroomsStub{}}
		room, err := allocator.ResolveClassroom(context.Background(), rooms, slot, date, map[bookingKey]bool{}, 0)
		require.NoError(t, err)
		assert.Equal(t, "r-small", room.ID)
	})

	t.Run("skips booked and reserved", func(t *testing.T) {
		allocator := &resourceAllocator{bookings: bookedClassroomsStub{ids: []string{"r-small"}}}
		reserved := map[bookingKey]bool{newBookingKey("r-mid", "s1", date): true}
		room, err := allocator.ResolveClassroom(context.Background(), rooms, slot, date, reserved, 0)
		require.NoError(t, err)
		assert.Equal(t, "r-large", room.ID)
	})

	t.Run("minimum capacity", func(t *testing.T) {
		allocator := &resourceAllocator{}
		room, err := allocator.ResolveClassroom(context.Background(), rooms, slot, date, map[bookingKey]bool{}, 31)
		require.NoError(t, err)
		assert.Equal(t, "r-large", room.ID)
	})

	t.Run("nothing free", func(t *testing.T) {
		allocator := &resourceAllocator{bookings: bookedClassroomsStub{ids: []string{"r-small", "r-mid", "r-large"}}}
		_, err := allocator.ResolveClassroom(context.Background(), rooms, slot, date, map[bookingKey]bool{}, 0)
		assert.True(t, errors.Is(err, errNoResourceAvailable))
	})

	t.Run("lookup failure is fatal", func(t *testing.T) {
		allocator := &resourceAllocator{bookings: bookedClassroomsStub{err: errors.New("db down")}}
		_, err := allocator.ResolveClassroom(context.Background(), rooms, slot, date, map[bookingKey]bool{}, 0)
		require.Error(t, err)
		assert.False(t, errors.Is(err, errNoResourceAvailable))
	})
}

func TestSchedulingPeriodDateFor(t *testing.T) {
	// Wednesday start: week 1 Monday rolls forward to the following Monday.
	period := models.SchedulingPeriod{StartDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2025-01-08", period.DateFor(1, 3).Format("2006-01-02"))
	assert.Equal(t, "2025-01-13", period.DateFor(1, 1).Format("2006-01-02"))
	assert.Equal(t, "2025-01-15", period.DateFor(2, 3).Format("2006-01-02"))
}
