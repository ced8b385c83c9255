package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestSessionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WithArgs(sqlmock.AnyArg(), "period-1", "course-1", "lect-1", "room-1", "slot-a", date, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.Session{
		SchedulingPeriodID: "period-1",
		CourseID:           "course-1",
		LecturerID:         "lect-1",
		ClassroomID:        "room-1",
		TimeSlotID:         "slot-a",
		Date:               date,
	}
	require.NoError(t, repo.Create(context.Background(), nil, session))
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	err := repo.Create(context.Background(), nil, &models.Session{SchedulingPeriodID: "period-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert session")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "sessions_classroom_slot_date_key"})

	err := repo.Create(context.Background(), nil, &models.Session{SchedulingPeriodID: "period-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateBooking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryBookedClassroomIDs(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	date := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT classroom_id FROM sessions WHERE date = $1 AND time_slot_id = $2")).
		WithArgs(date, "slot-b").
		WillReturnRows(sqlmock.NewRows([]string{"classroom_id"}).AddRow("room-1").AddRow("room-3"))

	ids, err := repo.BookedClassroomIDs(context.Background(), date, "slot-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"room-1", "room-3"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListDetailsByPeriod(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "week_number", "date", "day_of_week", "start_time", "end_time", "course_id", "course_name", "lecturer_id", "lecturer_name", "classroom_id", "classroom_name"}).
		AddRow("sess-1", 1, date, 1, "08:00", "09:30", "course-1", "Algebra", "lect-1", "Dewi", "room-1", "R101")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE pa.scheduling_period_id = $1")).
		WithArgs("period-1").
		WillReturnRows(rows)

	details, err := repo.ListDetailsByPeriod(context.Background(), "period-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Algebra", details[0].CourseName)
	assert.Equal(t, 1, details[0].WeekNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryDeleteByPeriod(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE scheduling_period_id = $1")).
		WithArgs("period-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	affected, err := repo.DeleteByPeriod(context.Background(), nil, "period-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewPeriodAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO period_assignments")).
		WithArgs(sqlmock.AnyArg(), "period-1", "sess-1", 2, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.PeriodAssignment{SchedulingPeriodID: "period-1", SessionID: "sess-1", WeekNumber: 2, Recurring: true}
	require.NoError(t, repo.Create(context.Background(), nil, assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodAssignmentRepositoryCreateRejectsWeekZero(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewPeriodAssignmentRepository(db)

	err := repo.Create(context.Background(), nil, &models.PeriodAssignment{SchedulingPeriodID: "period-1", SessionID: "sess-1"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodAssignmentRepositoryDeleteByPeriod(t *testing.T) {
	db, mock, cleanup := newSchedulingRepoMock(t)
	defer cleanup()
	repo := NewPeriodAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM period_assignments WHERE scheduling_period_id = $1")).
		WithArgs("period-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.DeleteByPeriod(context.Background(), nil, "period-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
