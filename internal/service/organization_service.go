package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
)

type organizationRepository interface {
	List(ctx context.Context) ([]models.Organization, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

// OrganizationService handles organization reads. Organizations are
// viewable by anyone, including anonymous callers, but the checks still
// run through the resolver so the handlers stay token-gated.
type OrganizationService struct {
	repo   organizationRepository
	authz  authorizer
	logger *zap.Logger
}

// NewOrganizationService constructs an OrganizationService.
func NewOrganizationService(repo organizationRepository, authorizer authorizer, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{repo: repo, authz: authorizer, logger: logger}
}

// List returns all organizations.
func (s *OrganizationService) List(ctx context.Context, userID *uuid.UUID) (authz.Token, []models.Organization, error) {
	organizations, err := s.repo.List(ctx)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return authz.SkipAuthorize(), organizations, nil
}

// Get returns one organization.
func (s *OrganizationService) Get(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (authz.Token, *models.Organization, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceOrganization(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	organization, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, organization, nil
}
