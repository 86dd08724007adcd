package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

const exerciseColumns = `id, name, course_id, exam_id, page_id, chapter_id, deadline,
        score_maximum, order_number, copied_from, created_at, updated_at, deleted_at`

// ExerciseRepository manages persistence for exercises and their slides
// and tasks.
type ExerciseRepository struct {
	db *sqlx.DB
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(db *sqlx.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// FindByID fetches an exercise by id.
func (r *ExerciseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1 AND deleted_at IS NULL`
	var exercise models.Exercise
	if err := r.db.GetContext(ctx, &exercise, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find exercise: %w", err)
	}
	return &exercise, nil
}

// ListByCourse returns a course's exercises in page and order number order.
func (r *ExerciseRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + `
        FROM exercises
        WHERE course_id = $1 AND deleted_at IS NULL
        ORDER BY page_id, order_number`
	var exercises []models.Exercise
	if err := r.db.SelectContext(ctx, &exercises, query, courseID); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// ListSlides returns an exercise's slides in order.
func (r *ExerciseRepository) ListSlides(ctx context.Context, exerciseID uuid.UUID) ([]models.ExerciseSlide, error) {
	query := `SELECT id, exercise_id, order_number, created_at, deleted_at
        FROM exercise_slides
        WHERE exercise_id = $1 AND deleted_at IS NULL
        ORDER BY order_number`
	var slides []models.ExerciseSlide
	if err := r.db.SelectContext(ctx, &slides, query, exerciseID); err != nil {
		return nil, fmt.Errorf("list exercise slides: %w", err)
	}
	return slides, nil
}

// ListTasks returns a slide's tasks in order.
func (r *ExerciseRepository) ListTasks(ctx context.Context, slideID uuid.UUID) ([]models.ExerciseTask, error) {
	query := `SELECT id, exercise_slide_id, exercise_type, assignment, private_spec, public_spec,
            model_solution_spec, order_number, copied_from, created_at, deleted_at
        FROM exercise_tasks
        WHERE exercise_slide_id = $1 AND deleted_at IS NULL
        ORDER BY order_number`
	var tasks []models.ExerciseTask
	if err := r.db.SelectContext(ctx, &tasks, query, slideID); err != nil {
		return nil, fmt.Errorf("list exercise tasks: %w", err)
	}
	return tasks, nil
}
