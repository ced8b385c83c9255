package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

// ExportFormat identifies a timetable rendering.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var timetableHeaders = []string{"Week", "Date", "Day", "Start", "End", "Course", "Lecturer", "Classroom"}

type sessionLister interface {
	ListSessions(ctx context.Context, periodID string) ([]models.SessionDetail, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportedFile is a rendered timetable ready for download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// TimetableExportService renders the generated sessions of a period.
type TimetableExportService struct {
	sessions  sessionLister
	renderers map[ExportFormat]datasetRenderer
	maxRows   int
	logger    *zap.Logger
}

// NewTimetableExportService constructs the export service. maxRows <= 0 disables the row cap.
func NewTimetableExportService(sessions sessionLister, maxRows int, logger *zap.Logger) *TimetableExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableExportService{
		sessions: sessions,
		renderers: map[ExportFormat]datasetRenderer{
			ExportFormatCSV:  export.NewCSVExporter(),
			ExportFormatPDF:  export.NewPDFExporter(),
			ExportFormatXLSX: export.NewXLSXExporter(),
		},
		maxRows: maxRows,
		logger:  logger,
	}
}

// Export renders the timetable of a period in the requested format.
func (s *TimetableExportService) Export(ctx context.Context, periodID string, format ExportFormat) (*ExportedFile, error) {
	format = ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx")
	}

	details, err := s.sessions.ListSessions(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no sessions generated for this scheduling period")
	}
	if s.maxRows > 0 && len(details) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("timetable has %d sessions, export limit is %d", len(details), s.maxRows))
	}

	content, err := renderer.Render(buildTimetableDataset(periodID, details))
	if err != nil {
		s.logger.Error("timetable render failed", zap.String("period_id", periodID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return &ExportedFile{
		Filename:    fmt.Sprintf("timetable-%s.%s", periodID, format),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func buildTimetableDataset(periodID string, details []models.SessionDetail) export.Dataset {
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			strconv.Itoa(d.WeekNumber),
			d.Date.Format("2006-01-02"),
			models.TimeSlot{DayOfWeek: d.DayOfWeek}.DayName(),
			d.StartTime,
			d.EndTime,
			d.CourseName,
			d.LecturerName,
			d.ClassroomName,
		})
	}
	return export.Dataset{
		Title:   "Timetable " + periodID,
		Headers: timetableHeaders,
		Rows:    rows,
	}
}
