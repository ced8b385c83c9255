package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// LecturerRepository reads lecturers and their slot availability.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs the repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// ListActive returns active lecturers.
func (r *LecturerRepository) ListActive(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT id, full_name, active FROM lecturers WHERE active = TRUE ORDER BY full_name ASC`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list active lecturers: %w", err)
	}
	return lecturers, nil
}

// ListAvailabilityByAcademicYear returns availability records for the academic year.
func (r *LecturerRepository) ListAvailabilityByAcademicYear(ctx context.Context, academicYearID string) ([]models.LecturerAvailability, error) {
	const query = `SELECT id, lecturer_id, time_slot_id, academic_year_id, status, start_date, end_date FROM lecturer_availabilities WHERE academic_year_id = $1`
	var records []models.LecturerAvailability
	if err := r.db.SelectContext(ctx, &records, query, academicYearID); err != nil {
		return nil, fmt.Errorf("list lecturer availability: %w", err)
	}
	return records, nil
}
