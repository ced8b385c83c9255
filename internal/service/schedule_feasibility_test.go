package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestCheckFeasibility(t *testing.T) {
	cases := []struct {
		name    string
		input   feasibilityInput
		wantErr bool
	}{
		{name: "fits", input: feasibilityInput{Courses: 2, SessionsPerWeek: 1, ActiveSlots: 2, ActiveClassrooms: 1, MaxDailySessions: 1}},
		{name: "exact capacity", input: feasibilityInput{Courses: 3, SessionsPerWeek: 5, ActiveSlots: 40, ActiveClassrooms: 1, MaxDailySessions: 3}},
		{name: "slots bound", input: feasibilityInput{Courses: 1, SessionsPerWeek: 4, ActiveSlots: 3, ActiveClassrooms: 1, MaxDailySessions: 1}, wantErr: true},
		{name: "daily cap bound", input: feasibilityInput{Courses: 2, SessionsPerWeek: 3, ActiveSlots: 30, ActiveClassrooms: 1, MaxDailySessions: 1}, wantErr: true},
		{name: "no slots", input: feasibilityInput{Courses: 1, SessionsPerWeek: 1, ActiveClassrooms: 1, MaxDailySessions: 1}, wantErr: true},
		{name: "no classrooms", input: feasibilityInput{Courses: 1, SessionsPerWeek: 1, ActiveSlots: 5, MaxDailySessions: 1}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkFeasibility(tc.input)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrInfeasible))
		})
	}
}

func TestCheckFeasibilityMessageNamesCapacity(t *testing.T) {
	err := checkFeasibility(feasibilityInput{Courses: 1, SessionsPerWeek: 4, ActiveSlots: 3, ActiveClassrooms: 1, MaxDailySessions: 1})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "weekly capacity is 3")
}
