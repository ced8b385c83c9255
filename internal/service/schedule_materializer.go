package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type sessionWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, session *models.Session) error
}

type periodAssignmentWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.PeriodAssignment) error
}

// allocationDecision is a confirmed placement waiting to be persisted.
type allocationDecision struct {
	Week        int
	CourseID    string
	LecturerID  string
	ClassroomID string
	Slot        models.TimeSlot
	Date        time.Time
}

// sessionMaterializer writes a decision as a session plus its period assignment.
type sessionMaterializer struct {
	sessions    sessionWriter
	assignments periodAssignmentWriter
}

// Materialize persists one decision through exec. Storage errors are returned untouched.
func (m *sessionMaterializer) Materialize(ctx context.Context, exec sqlx.ExtContext, periodID string, decision allocationDecision) (*models.Session, error) {
	session := &models.Session{
		SchedulingPeriodID: periodID,
		CourseID:           decision.CourseID,
		LecturerID:         decision.LecturerID,
		ClassroomID:        decision.ClassroomID,
		TimeSlotID:         decision.Slot.ID,
		Date:               decision.Date,
	}
	if err := m.sessions.Create(ctx, exec, session); err != nil {
		return nil, err
	}
	assignment := &models.PeriodAssignment{
		SchedulingPeriodID: periodID,
		SessionID:          session.ID,
		WeekNumber:         decision.Week,
		Recurring:          true,
	}
	if err := m.assignments.Create(ctx, exec, assignment); err != nil {
		return nil, err
	}
	return session, nil
}
