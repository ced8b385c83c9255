package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type sessionListerStub struct {
	details []models.SessionDetail
	err     error
}

func (s sessionListerStub) ListSessions(ctx context.Context, periodID string) ([]models.SessionDetail, error) {
	return s.details, s.err
}

func sampleSessionDetails() []models.SessionDetail {
	return []models.SessionDetail{
		{
			ID: "s1", WeekNumber: 1, Date: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), DayOfWeek: 1,
			StartTime: "08:00", EndTime: "09:30", CourseName: "Mathematics", LecturerName: "Ibu Sari", ClassroomName: "R101",
		},
		{
			ID: "s2", WeekNumber: 1, Date: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), DayOfWeek: 2,
			StartTime: "10:00", EndTime: "11:30", CourseName: "Physics", LecturerName: "Pak Budi", ClassroomName: "Lab, East",
		},
	}
}

func TestTimetableExportServiceCSV(t *testing.T) {
	svc := NewTimetableExportService(sessionListerStub{details: sampleSessionDetails()}, 100, nil)

	file, err := svc.Export(context.Background(), "period-1", "")
	require.NoError(t, err)
	assert.Equal(t, "timetable-period-1.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Week,Date,Day,Start,End,Course,Lecturer,Classroom", lines[0])
	assert.Equal(t, "1,2025-01-06,MONDAY,08:00,09:30,Mathematics,Ibu Sari,R101", lines[1])
	assert.Equal(t, `1,2025-01-07,TUESDAY,10:00,11:30,Physics,Pak Budi,"Lab, East"`, lines[2])
}

func TestTimetableExportServicePDF(t *testing.T) {
	svc := NewTimetableExportService(sessionListerStub{details: sampleSessionDetails()}, 0, nil)

	file, err := svc.Export(context.Background(), "period-1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "timetable-period-1.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestTimetableExportServiceXLSX(t *testing.T) {
	svc := NewTimetableExportService(sessionListerStub{details: sampleSessionDetails()}, 0, nil)

	file, err := svc.Export(context.Background(), "period-1", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "timetable-period-1.xlsx", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("PK")))
}

func TestTimetableExportServiceErrors(t *testing.T) {
	_, err := NewTimetableExportService(sessionListerStub{details: sampleSessionDetails()}, 0, nil).Export(context.Background(), "p", "docx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = NewTimetableExportService(sessionListerStub{}, 0, nil).Export(context.Background(), "p", "csv")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = NewTimetableExportService(sessionListerStub{details: sampleSessionDetails()}, 1, nil).Export(context.Background(), "p", "csv")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	notFound := appErrors.Clone(appErrors.ErrNotFound, "scheduling period not found")
	_, err = NewTimetableExportService(sessionListerStub{err: notFound}, 0, nil).Export(context.Background(), "p", "csv")
	assert.True(t, errors.Is(err, notFound))
}
