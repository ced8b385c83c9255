package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const defaultMaxAttemptsPerCourseWeek = 50

type schedulingPeriodStore interface {
	FindByID(ctx context.Context, id string) (*models.SchedulingPeriod, error)
	MarkGenerated(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int) error
	ResetGeneration(ctx context.Context, exec sqlx.ExtContext, id string, expectedVersion int) error
}

type courseReader interface {
	ListByLevel(ctx context.Context, levelID string) ([]models.Course, error)
}

type timeSlotReader interface {
	ListActiveWeekdays(ctx context.Context) ([]models.TimeSlot, error)
}

type classroomReader interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

type lecturerReader interface {
	ListActive(ctx context.Context) ([]models.Lecturer, error)
	ListAvailabilityByAcademicYear(ctx context.Context, academicYearID string) ([]models.LecturerAvailability, error)
}

type sessionStore interface {
	sessionWriter
	bookedClassroomFinder
	ListDetailsByPeriod(ctx context.Context, periodID string) ([]models.SessionDetail, error)
	DeleteByPeriod(ctx context.Context, exec sqlx.ExtContext, periodID string) (int64, error)
}

type periodAssignmentStore interface {
	periodAssignmentWriter
	DeleteByPeriod(ctx context.Context, exec sqlx.ExtContext, periodID string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type generationState string

const (
	stateNotStarted generationState = "not_started"
	stateValidating generationState = "validating"
	stateAllocating generationState = "allocating"
	statePersisting generationState = "persisting"
	stateSucceeded  generationState = "succeeded"
	stateFailed     generationState = "failed"
)

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	MaxAttemptsPerCourseWeek int
	// RandomSeed seeds slot and lecturer sampling. Zero draws a seed from crypto/rand.
	RandomSeed int64
}

// ScheduleGeneratorService builds and persists the sessions of a scheduling period.
type ScheduleGeneratorService struct {
	periods     schedulingPeriodStore
	courses     courseReader
	slots       timeSlotReader
	classrooms  classroomReader
	lecturers   lecturerReader
	sessions    sessionStore
	assignments periodAssignmentStore
	tx          txProvider
	lease       GenerationLease
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger

	maxAttempts int
	seedMu      sync.Mutex
	seeder      *rand.Rand
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	periods schedulingPeriodStore,
	courses courseReader,
	slots timeSlotReader,
	classrooms classroomReader,
	lecturers lecturerReader,
	sessions sessionStore,
	assignments periodAssignmentStore,
	tx txProvider,
	lease GenerationLease,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lease == nil {
		lease = NewLocalGenerationLease()
	}
	if cfg.MaxAttemptsPerCourseWeek <= 0 {
		cfg.MaxAttemptsPerCourseWeek = defaultMaxAttemptsPerCourseWeek
	}
	seed := cfg.RandomSeed
	if seed == 0 {
		if drawn, err := newRandomSeed(); err == nil {
			seed = drawn
		} else {
			seed = time.Now().UnixNano()
		}
	}
	return &ScheduleGeneratorService{
		periods:     periods,
		courses:     courses,
		slots:       slots,
		classrooms:  classrooms,
		lecturers:   lecturers,
		sessions:    sessions,
		assignments: assignments,
		tx:          tx,
		lease:       lease,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		maxAttempts: cfg.MaxAttemptsPerCourseWeek,
		seeder:      rand.New(rand.NewSource(seed)),
	}
}

// generationRun owns the mutable state of one Generate invocation.
type generationRun struct {
	period     models.SchedulingPeriod
	opts       dto.GenerateScheduleRequest
	courses    []models.Course
	slots      []models.TimeSlot
	rooms      []models.Classroom
	selector   *slotSelector
	allocator  *resourceAllocator
	totalWeeks int

	decisions  []allocationDecision
	reserved   map[bookingKey]bool
	placed     map[string]int
	noResource int
	state      generationState
}

// Generate computes and persists the sessions of a scheduling period. On failure the returned
// response has Success=false and SessionsCount=0 alongside the error.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, periodID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	started := time.Now()
	resp, err := s.generate(ctx, periodID, req)
	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
		if appErrors.Is(err, appErrors.ErrInfeasible) {
			outcome = "infeasible"
		}
		resp = &dto.GenerateScheduleResponse{Success: false, Message: appErrors.FromError(err).Message}
	}
	s.metrics.ObserveGeneration(outcome, resp.SessionsCount, totalShortfall(resp.Fulfillment), time.Since(started))
	return resp, err
}

func (s *ScheduleGeneratorService) generate(ctx context.Context, periodID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	if periodID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduling period id is required")
	}

	release, err := s.lease.Acquire(ctx, periodID)
	if err != nil {
		if errors.Is(err, ErrLeaseHeld) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "generation already running for this scheduling period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lease")
	}
	defer release()

	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status == models.SchedulingPeriodStatusArchived {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "archived scheduling periods cannot be generated")
	}
	if period.Generated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "scheduling period already generated; reset it before generating again")
	}

	run, err := s.prepareRun(ctx, *period, req)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("period_id", period.ID))

	s.transition(log, run, stateValidating)
	if err := checkFeasibility(feasibilityInput{
		Courses:          len(run.courses),
		SessionsPerWeek:  req.SessionsPerWeek,
		ActiveSlots:      len(run.slots),
		ActiveClassrooms: len(run.rooms),
		MaxDailySessions: req.MaxDailySessions,
	}); err != nil {
		s.transition(log, run, stateFailed)
		return nil, err
	}

	s.transition(log, run, stateAllocating)
	log.Debug("availability indexed", zap.Int("pairs", run.selector.index.Size()), zap.Int("courses", len(run.courses)))
	if err := s.allocate(ctx, run); err != nil {
		s.transition(log, run, stateFailed)
		log.Error("schedule allocation failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate sessions")
	}

	s.transition(log, run, statePersisting)
	if err := s.persist(ctx, run); err != nil {
		s.transition(log, run, stateFailed)
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Error("schedule persistence failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated sessions")
	}

	s.transition(log, run, stateSucceeded)
	fulfillment := run.fulfillment()
	shortfall := totalShortfall(fulfillment)
	message := fmt.Sprintf("generated %d sessions across %d weeks", len(run.decisions), run.totalWeeks)
	if shortfall > 0 {
		message = fmt.Sprintf("%s; %d requested sessions could not be placed", message, shortfall)
		log.Warn("schedule generated with shortfall", zap.Int("shortfall", shortfall), zap.Int("no_resource_attempts", run.noResource))
	}
	return &dto.GenerateScheduleResponse{
		Success:       true,
		Message:       message,
		SessionsCount: len(run.decisions),
		TotalWeeks:    run.totalWeeks,
		Fulfillment:   fulfillment,
	}, nil
}

// ListSessions returns the generated sessions of a period.
func (s *ScheduleGeneratorService) ListSessions(ctx context.Context, periodID string) ([]models.SessionDetail, error) {
	if _, err := s.loadPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	details, err := s.sessions.ListDetailsByPeriod(ctx, periodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return details, nil
}

// Reset removes generated sessions and returns the period to draft so it can be generated again.
func (s *ScheduleGeneratorService) Reset(ctx context.Context, periodID string) (int64, error) {
	release, err := s.lease.Acquire(ctx, periodID)
	if err != nil {
		if errors.Is(err, ErrLeaseHeld) {
			return 0, appErrors.Clone(appErrors.ErrConflict, "generation already running for this scheduling period")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lease")
	}
	defer release()

	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		return 0, err
	}
	if period.Status == models.SchedulingPeriodStatusArchived {
		return 0, appErrors.Clone(appErrors.ErrPreconditionFailed, "archived scheduling periods cannot be reset")
	}
	if s.tx == nil {
		return 0, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.assignments.DeleteByPeriod(ctx, tx, periodID); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete period assignments")
	}
	var removed int64
	if removed, err = s.sessions.DeleteByPeriod(ctx, tx, periodID); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sessions")
	}
	if err = s.periods.ResetGeneration(ctx, tx, periodID, period.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrConflict, "scheduling period was modified concurrently")
			return 0, err
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset scheduling period")
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit reset transaction")
	}
	s.logger.Info("scheduling period reset", zap.String("period_id", periodID), zap.Int64("sessions_removed", removed))
	return removed, nil
}

func (s *ScheduleGeneratorService) loadPeriod(ctx context.Context, periodID string) (*models.SchedulingPeriod, error) {
	period, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduling period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling period")
	}
	return period, nil
}

func (s *ScheduleGeneratorService) prepareRun(ctx context.Context, period models.SchedulingPeriod, req dto.GenerateScheduleRequest) (*generationRun, error) {
	courses, err := s.courses.ListByLevel(ctx, period.LevelID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	allSlots, err := s.slots.ListActiveWeekdays(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	slots := make([]models.TimeSlot, 0, len(allSlots))
	for _, slot := range allSlots {
		if slot.Active && slot.IsWeekday() {
			slots = append(slots, slot)
		}
	}
	allRooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	rooms := make([]models.Classroom, 0, len(allRooms))
	for _, room := range allRooms {
		if room.Active {
			rooms = append(rooms, room)
		}
	}
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Capacity < rooms[j].Capacity })
	records, err := s.lecturers.ListAvailabilityByAcademicYear(ctx, period.AcademicYearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer availability")
	}
	lecturers, err := s.lecturers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturers")
	}

	index := buildAvailabilityIndex(records, period, lecturers)
	rng := s.newRunRand()
	return &generationRun{
		period:     period,
		opts:       req,
		courses:    courses,
		slots:      slots,
		rooms:      rooms,
		selector:   &slotSelector{index: index, rng: rng},
		allocator:  &resourceAllocator{index: index, bookings: s.sessions, rng: rng},
		totalWeeks: period.TotalWeeks(),
		reserved:   make(map[bookingKey]bool),
		placed:     make(map[string]int, len(courses)),
		state:      stateNotStarted,
	}, nil
}

// allocate walks week -> course -> placement. A slot taken by any course is consumed for the
// rest of that week.
func (s *ScheduleGeneratorService) allocate(ctx context.Context, run *generationRun) error {
	for week := 1; week <= run.totalWeeks; week++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		used := make(map[string]bool, len(run.slots))
		dayLoad := make(map[int]int, schoolDaysPerWeek)

		for _, course := range run.courses {
			var held []models.TimeSlot
			rejected := make(map[string]bool)
			placed := 0
			for attempt := 0; placed < run.opts.SessionsPerWeek && attempt < s.maxAttempts; attempt++ {
				free := make([]models.TimeSlot, 0, len(run.slots))
				for _, slot := range run.slots {
					if !used[slot.ID] && !rejected[slot.ID] {
						free = append(free, slot)
					}
				}
				slot, ok := run.selector.Pick(free, held, dayLoad, run.opts)
				if !ok {
					break
				}

				lecturerID, err := run.allocator.ResolveLecturer(slot.ID)
				if err != nil {
					run.noResource++
					rejected[slot.ID] = true
					continue
				}
				date := run.period.DateFor(week, slot.DayOfWeek)
				room, err := run.allocator.ResolveClassroom(ctx, run.rooms, slot, date, run.reserved, run.opts.MinClassroomCapacity)
				if err != nil {
					if errors.Is(err, errNoResourceAvailable) {
						run.noResource++
						rejected[slot.ID] = true
						continue
					}
					return err
				}

				used[slot.ID] = true
				dayLoad[slot.DayOfWeek]++
				held = append(held, slot)
				run.reserved[newBookingKey(room.ID, slot.ID, date)] = true
				run.decisions = append(run.decisions, allocationDecision{
					Week:        week,
					CourseID:    course.ID,
					LecturerID:  lecturerID,
					ClassroomID: room.ID,
					Slot:        slot,
					Date:        date,
				})
				run.placed[course.ID]++
				placed++
			}
		}
	}
	return nil
}

// persist writes every decision and flips the period flags inside one transaction.
func (s *ScheduleGeneratorService) persist(ctx context.Context, run *generationRun) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	materializer := &sessionMaterializer{sessions: s.sessions, assignments: s.assignments}
	for _, decision := range run.decisions {
		if _, err = materializer.Materialize(ctx, tx, run.period.ID, decision); err != nil {
			if errors.Is(err, repository.ErrDuplicateBooking) {
				err = appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "a classroom was booked concurrently; retry generation")
			}
			return err
		}
	}
	if err = s.periods.MarkGenerated(ctx, tx, run.period.ID, run.period.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrConflict, "scheduling period was modified concurrently")
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *ScheduleGeneratorService) transition(log *zap.Logger, run *generationRun, next generationState) {
	log.Debug("generation state changed", zap.String("from", string(run.state)), zap.String("to", string(next)))
	run.state = next
}

// newRunRand derives an independent source per run from the service seeder.
func (s *ScheduleGeneratorService) newRunRand() *rand.Rand {
	s.seedMu.Lock()
	seed := s.seeder.Int63()
	s.seedMu.Unlock()
	return rand.New(rand.NewSource(seed))
}

func (r *generationRun) fulfillment() []dto.CourseFulfillment {
	requested := r.opts.SessionsPerWeek * r.totalWeeks
	report := make([]dto.CourseFulfillment, 0, len(r.courses))
	for _, course := range r.courses {
		placed := r.placed[course.ID]
		report = append(report, dto.CourseFulfillment{
			CourseID:  course.ID,
			Requested: requested,
			Placed:    placed,
			Shortfall: requested - placed,
		})
	}
	return report
}

func totalShortfall(report []dto.CourseFulfillment) int {
	total := 0
	for _, item := range report {
		total += item.Shortfall
	}
	return total
}
