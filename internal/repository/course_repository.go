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

const courseColumns = `id, name, slug, organization_id, language_code, content_search_language,
        course_language_group_id, description, is_draft, is_test_mode, copied_from,
        base_module_completion_requires_n_submodule_completions, created_at, updated_at, deleted_at`

// CourseRepository manages persistence for courses, their instances and
// their modules.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND deleted_at IS NULL`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// ListByOrganization returns a page of the organization's courses.
// Callers normalize page and pageSize before handing them down.
func (r *CourseRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, page, pageSize int) ([]models.Course, int, error) {
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT `+courseColumns+`
        FROM courses
        WHERE organization_id = $1 AND deleted_at IS NULL
        ORDER BY name
        LIMIT %d OFFSET %d`, pageSize, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, organizationID); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM courses WHERE organization_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, organizationID); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// Create inserts a course together with its language group and default
// instance in one transaction.
func (r *CourseRepository) Create(ctx context.Context, newCourse models.NewCourse) (*models.Course, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create course: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	languageGroupID := uuid.New()
	if _, err := tx.ExecContext(ctx, `INSERT INTO course_language_groups (id) VALUES ($1)`, languageGroupID); err != nil {
		return nil, fmt.Errorf("create language group: %w", err)
	}

	var description *string
	if newCourse.Description != "" {
		description = &newCourse.Description
	}
	var course models.Course
	err = tx.GetContext(ctx, &course, `
        INSERT INTO courses (id, name, slug, organization_id, language_code, course_language_group_id, description, is_draft, is_test_mode)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+courseColumns,
		uuid.New(), newCourse.Name, newCourse.Slug, newCourse.OrganizationID, newCourse.LanguageCode,
		languageGroupID, description, newCourse.IsDraft, newCourse.IsTestMode)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO course_instances (id, course_id, teacher_in_charge_name, teacher_in_charge_email)
        VALUES ($1, $2, $3, $4)`,
		uuid.New(), course.ID, newCourse.TeacherInChargeName, newCourse.TeacherInChargeEmail)
	if err != nil {
		return nil, fmt.Errorf("insert default instance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create course: %w", err)
	}
	return &course, nil
}

// Update modifies the editable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, id uuid.UUID, update models.UpdateCourse) (*models.Course, error) {
	query := `UPDATE courses
        SET name = $1, description = $2, is_draft = $3, updated_at = NOW()
        WHERE id = $4 AND deleted_at IS NULL
        RETURNING ` + courseColumns
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, update.Name, update.Description, update.IsDraft, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return &course, nil
}

// SoftDelete marks a course as deleted.
func (r *CourseRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course affected rows: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// ListInstances returns a course's instances.
func (r *CourseRepository) ListInstances(ctx context.Context, courseID uuid.UUID) ([]models.CourseInstance, error) {
	query := `SELECT id, course_id, name, description, support_email, teacher_in_charge_name, teacher_in_charge_email,
            opens_at, closes_at, created_at, updated_at, deleted_at
        FROM course_instances
        WHERE course_id = $1 AND deleted_at IS NULL
        ORDER BY created_at`
	var instances []models.CourseInstance
	if err := r.db.SelectContext(ctx, &instances, query, courseID); err != nil {
		return nil, fmt.Errorf("list course instances: %w", err)
	}
	return instances, nil
}

// FindModuleByID fetches a course module by id.
func (r *CourseRepository) FindModuleByID(ctx context.Context, id uuid.UUID) (*models.CourseModule, error) {
	query := `SELECT id, course_id, name, order_number, copied_from, created_at, deleted_at
        FROM course_modules
        WHERE id = $1 AND deleted_at IS NULL`
	var module models.CourseModule
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find course module: %w", err)
	}
	return &module, nil
}

// ListModules returns a course's modules in order.
func (r *CourseRepository) ListModules(ctx context.Context, courseID uuid.UUID) ([]models.CourseModule, error) {
	query := `SELECT id, course_id, name, order_number, copied_from, created_at, deleted_at
        FROM course_modules
        WHERE course_id = $1 AND deleted_at IS NULL
        ORDER BY order_number`
	var modules []models.CourseModule
	if err := r.db.SelectContext(ctx, &modules, query, courseID); err != nil {
		return nil, fmt.Errorf("list course modules: %w", err)
	}
	return modules, nil
}
