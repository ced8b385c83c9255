package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, periodID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	ListSessions(ctx context.Context, periodID string) ([]models.SessionDetail, error)
	Reset(ctx context.Context, periodID string) (int64, error)
}

type generationJobs interface {
	Enqueue(ctx context.Context, periodID string, req dto.GenerateScheduleRequest) (*dto.GenerationJob, error)
	Status(ctx context.Context, jobID string) (*dto.GenerationJob, error)
}

type timetableExporter interface {
	Export(ctx context.Context, periodID string, format service.ExportFormat) (*service.ExportedFile, error)
}

// ScheduleGeneratorHandler exposes timetable generation endpoints.
type ScheduleGeneratorHandler struct {
	service  scheduleGenerator
	jobs     generationJobs
	exporter timetableExporter
	defaults dto.GenerateScheduleRequest
}

// NewScheduleGeneratorHandler constructs the handler. Fields omitted from a request body take their value from defaults.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService, jobs *service.GenerationJobService, exporter *service.TimetableExportService, defaults dto.GenerateScheduleRequest) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc, jobs: jobs, exporter: exporter, defaults: defaults}
}

// Generate godoc
// @Summary Generate the sessions of a scheduling period
// @Description Places every course of the period's level into time slots, classrooms and lecturers for each week, then persists the result atomically.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Scheduling period ID"
// @Param payload body dto.GenerateScheduleRequest true "Generation options"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /scheduling-periods/{id}/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	req, ok := h.bindGenerateRequest(c)
	if !ok {
		return
	}
	result, err := h.service.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// GenerateAsync godoc
// @Summary Queue generation of a scheduling period
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "Scheduling period ID"
// @Param payload body dto.GenerateScheduleRequest true "Generation options"
// @Success 202 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /scheduling-periods/{id}/generate/async [post]
func (h *ScheduleGeneratorHandler) GenerateAsync(c *gin.Context) {
	req, ok := h.bindGenerateRequest(c)
	if !ok {
		return
	}
	job, err := h.jobs.Enqueue(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"jobId": job.ID, "status": job.Status})
}

// JobStatus godoc
// @Summary Get an asynchronous generation job
// @Tags Scheduler
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scheduling-jobs/{jobId} [get]
func (h *ScheduleGeneratorHandler) JobStatus(c *gin.Context) {
	job, err := h.jobs.Status(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Sessions godoc
// @Summary List generated sessions of a scheduling period
// @Tags Scheduler
// @Produce json
// @Param id path string true "Scheduling period ID"
// @Success 200 {object} response.Envelope
// @Router /scheduling-periods/{id}/sessions [get]
func (h *ScheduleGeneratorHandler) Sessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, map[string]interface{}{"count": len(sessions)})
}

// Reset godoc
// @Summary Remove generated sessions so the period can be generated again
// @Tags Scheduler
// @Produce json
// @Param id path string true "Scheduling period ID"
// @Success 200 {object} response.Envelope
// @Router /scheduling-periods/{id}/sessions [delete]
func (h *ScheduleGeneratorHandler) Reset(c *gin.Context) {
	removed, err := h.service.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed})
}

// Export godoc
// @Summary Download the timetable of a scheduling period
// @Tags Scheduler
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Scheduling period ID"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /scheduling-periods/{id}/export [get]
func (h *ScheduleGeneratorHandler) Export(c *gin.Context) {
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}

func (h *ScheduleGeneratorHandler) bindGenerateRequest(c *gin.Context) (dto.GenerateScheduleRequest, bool) {
	req := h.defaults
	// an empty body keeps the configured defaults
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return req, false
	}
	return req, true
}
