package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

const generationJobType = "schedule.generate"

type scheduleGenerator interface {
	Generate(ctx context.Context, periodID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type jobStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type generationJobPayload struct {
	PeriodID string
	Request  dto.GenerateScheduleRequest
}

// GenerationJobService runs schedule generation in the background and tracks job status.
type GenerationJobService struct {
	generator scheduleGenerator
	store     jobStore
	queue     jobEnqueuer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	resultTTL time.Duration
	now       func() time.Time
}

// NewGenerationJobService constructs the job service. Attach a queue with AttachQueue before enqueueing.
func NewGenerationJobService(generator scheduleGenerator, store jobStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, resultTTL time.Duration) *GenerationJobService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if resultTTL <= 0 {
		resultTTL = 24 * time.Hour
	}
	return &GenerationJobService{
		generator: generator,
		store:     store,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		resultTTL: resultTTL,
		now:       time.Now,
	}
}

// AttachQueue sets the queue used by Enqueue. The queue handler should be Handle.
func (s *GenerationJobService) AttachQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Enqueue records a pending job and hands it to the worker pool.
func (s *GenerationJobService) Enqueue(ctx context.Context, periodID string, req dto.GenerateScheduleRequest) (*dto.GenerationJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	if periodID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduling period id is required")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "generation queue not configured")
	}

	job := &dto.GenerationJob{
		ID:                 uuid.NewString(),
		SchedulingPeriodID: periodID,
		Status:             dto.GenerationJobPending,
		Request:            req,
		EnqueuedAt:         s.now().UTC().Format(time.RFC3339),
	}
	if err := s.save(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record generation job")
	}

	err := s.queue.Enqueue(jobs.Job{
		ID:      job.ID,
		Type:    generationJobType,
		Payload: generationJobPayload{PeriodID: periodID, Request: req},
	})
	if err != nil {
		job.Status = dto.GenerationJobFailed
		job.Error = "generation queue unavailable"
		job.FinishedAt = s.now().UTC().Format(time.RFC3339)
		_ = s.save(ctx, job)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Clone(appErrors.ErrTooManyRequests, "generation queue is full, retry later")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation job")
	}

	s.logger.Info("generation job enqueued", zap.String("job_id", job.ID), zap.String("period_id", periodID))
	return job, nil
}

// Status returns the current state of a job.
func (s *GenerationJobService) Status(ctx context.Context, jobID string) (*dto.GenerationJob, error) {
	var job dto.GenerationJob
	hit, err := s.store.Get(ctx, generationJobKey(jobID), &job)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation job")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
	}
	return &job, nil
}

// Handle executes a queued job. Generation failures are recorded on the job and never retried.
func (s *GenerationJobService) Handle(ctx context.Context, queued jobs.Job) error {
	payload, ok := queued.Payload.(generationJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", queued.Payload, queued.ID)
	}
	job, err := s.Status(ctx, queued.ID)
	if err != nil {
		job = &dto.GenerationJob{
			ID:                 queued.ID,
			SchedulingPeriodID: payload.PeriodID,
			Request:            payload.Request,
			EnqueuedAt:         queued.Enqueued.UTC().Format(time.RFC3339),
		}
	}

	job.Status = dto.GenerationJobRunning
	if err := s.save(ctx, job); err != nil {
		return err
	}
	s.metrics.JobStarted()

	result, genErr := s.generator.Generate(ctx, payload.PeriodID, payload.Request)
	job.Result = result
	job.FinishedAt = s.now().UTC().Format(time.RFC3339)
	if genErr != nil {
		job.Status = dto.GenerationJobFailed
		job.Error = appErrors.FromError(genErr).Message
		s.logger.Warn("generation job failed", zap.String("job_id", job.ID), zap.String("period_id", payload.PeriodID), zap.Error(genErr))
	} else {
		job.Status = dto.GenerationJobSucceeded
		s.logger.Info("generation job finished", zap.String("job_id", job.ID), zap.Int("sessions", result.SessionsCount))
	}
	s.metrics.JobFinished(string(job.Status))

	if err := s.save(ctx, job); err != nil {
		s.logger.Error("failed to store generation job result", zap.String("job_id", job.ID), zap.Error(err))
	}
	return nil
}

// GiveUp marks a job failed after the queue stopped retrying it.
func (s *GenerationJobService) GiveUp(queued jobs.Job, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	job, err := s.Status(ctx, queued.ID)
	if err != nil {
		return
	}
	job.Status = dto.GenerationJobFailed
	job.Error = "generation job could not be processed"
	job.FinishedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.save(ctx, job); err != nil {
		s.logger.Error("failed to store abandoned generation job", zap.String("job_id", job.ID), zap.Error(err), zap.NamedError("cause", cause))
	}
}

func (s *GenerationJobService) save(ctx context.Context, job *dto.GenerationJob) error {
	return s.store.Set(ctx, generationJobKey(job.ID), job, s.resultTTL)
}

func generationJobKey(id string) string {
	return "scheduler:job:" + id
}
