package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

// RoleRepository manages role assignments.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository constructs a RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// ListForDomain returns every assignment scoped to the given domain
// together with the holder's user row, for role management views.
func (r *RoleRepository) ListForDomain(ctx context.Context, domain models.RoleDomain) ([]models.Role, error) {
	query := `SELECT id, user_id, role, organization_id, course_id, course_instance_id, exam_id, created_at
        FROM roles WHERE `
	var args []interface{}
	switch domain.Kind {
	case models.DomainGlobal:
		query += `organization_id IS NULL AND course_id IS NULL AND course_instance_id IS NULL AND exam_id IS NULL`
	case models.DomainOrganization:
		query += `organization_id = $1`
		args = append(args, domain.ID)
	case models.DomainCourse:
		query += `course_id = $1`
		args = append(args, domain.ID)
	case models.DomainCourseInstance:
		query += `course_instance_id = $1`
		args = append(args, domain.ID)
	case models.DomainExam:
		query += `exam_id = $1`
		args = append(args, domain.ID)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role domain")
	}

	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Insert adds a role assignment for the user within the domain.
func (r *RoleRepository) Insert(ctx context.Context, userID uuid.UUID, role models.UserRole, domain models.RoleDomain) error {
	query := `INSERT INTO roles (id, user_id, role, organization_id, course_id, course_instance_id, exam_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	organizationID, courseID, courseInstanceID, examID := domainColumns(domain)
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, role, organizationID, courseID, courseInstanceID, examID)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// Delete removes the user's role assignment within the domain. Missing
// assignments are reported as not found.
func (r *RoleRepository) Delete(ctx context.Context, userID uuid.UUID, role models.UserRole, domain models.RoleDomain) error {
	query := `DELETE FROM roles
        WHERE user_id = $1 AND role = $2
          AND organization_id IS NOT DISTINCT FROM $3
          AND course_id IS NOT DISTINCT FROM $4
          AND course_instance_id IS NOT DISTINCT FROM $5
          AND exam_id IS NOT DISTINCT FROM $6`
	organizationID, courseID, courseInstanceID, examID := domainColumns(domain)
	result, err := r.db.ExecContext(ctx, query, userID, role, organizationID, courseID, courseInstanceID, examID)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete role affected rows: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

func domainColumns(domain models.RoleDomain) (organizationID, courseID, courseInstanceID, examID *uuid.UUID) {
	switch domain.Kind {
	case models.DomainOrganization:
		organizationID = domain.ID
	case models.DomainCourse:
		courseID = domain.ID
	case models.DomainCourseInstance:
		courseInstanceID = domain.ID
	case models.DomainExam:
		examID = domain.ID
	}
	return
}
