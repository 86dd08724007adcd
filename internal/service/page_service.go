package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type pageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	UpdateContent(ctx context.Context, id uuid.UUID, update models.UpdatePageContent) (*models.Page, error)
}

type cacheInvalidator interface {
	InvalidateCourse(ctx context.Context, courseID uuid.UUID)
}

// PageService handles the authoring side of pages: fetching a page for
// the editor and saving edited content.
type PageService struct {
	repo      pageRepository
	cache     cacheInvalidator
	authz     authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPageService constructs a PageService.
func NewPageService(repo pageRepository, cache cacheInvalidator, authorizer authorizer, validate *validator.Validate, logger *zap.Logger) *PageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageService{repo: repo, cache: cache, authz: authorizer, validator: validate, logger: logger}
}

// Get returns a page the caller may teach.
func (s *PageService) Get(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (authz.Token, *models.Page, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionTeach, userID, authz.ResourcePage(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, page, nil
}

// UpdateContent saves an edited content document. The document must be
// a JSON array of blocks; the block internals are opaque to the backend.
func (s *PageService) UpdateContent(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req models.UpdatePageContent) (authz.Token, *models.Page, error) {
	if err := s.validator.Struct(req); err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid page payload")
	}
	var blocks []json.RawMessage
	if err := json.Unmarshal(req.Content, &blocks); err != nil {
		return authz.Token{}, nil, appErrors.Clone(appErrors.ErrValidation, "content must be an array of blocks")
	}

	token, err := s.authz.Authorize(ctx, authz.ActionEdit, userID, authz.ResourcePage(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	page, err := s.repo.UpdateContent(ctx, id, req)
	if err != nil {
		return authz.Token{}, nil, err
	}
	if page.CourseID != nil {
		s.cache.InvalidateCourse(ctx, *page.CourseID)
	}
	s.logger.Info("page content updated", zap.String("page_id", id.String()))
	return token, page, nil
}
