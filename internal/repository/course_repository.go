package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// CourseRepository reads courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListByLevel returns active courses bound to a level in a stable order.
func (r *CourseRepository) ListByLevel(ctx context.Context, levelID string) ([]models.Course, error) {
	const query = `SELECT id, code, name, level_id, active FROM courses WHERE level_id = $1 AND active = TRUE ORDER BY code ASC, id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, levelID); err != nil {
		return nil, fmt.Errorf("list courses by level: %w", err)
	}
	return courses, nil
}
