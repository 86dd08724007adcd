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

// OrganizationRepository manages persistence for organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs an OrganizationRepository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// List returns all organizations ordered by name.
func (r *OrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	query := `SELECT id, name, slug, description, created_at, updated_at, deleted_at
        FROM organizations
        WHERE deleted_at IS NULL
        ORDER BY name`
	var organizations []models.Organization
	if err := r.db.SelectContext(ctx, &organizations, query); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return organizations, nil
}

// FindByID fetches an organization by id.
func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT id, name, slug, description, created_at, updated_at, deleted_at
        FROM organizations
        WHERE id = $1 AND deleted_at IS NULL`
	var organization models.Organization
	if err := r.db.GetContext(ctx, &organization, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return &organization, nil
}
