package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type completionRepository interface {
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CourseModuleCompletion, error)
}

type registryAuthorizer interface {
	Authorize(ctx context.Context, action authz.Action, userID *uuid.UUID, resource authz.Resource) (authz.Token, error)
}

// StudyRegistryService exports course completions to external study
// registries. Callers authenticate with a registrar secret key instead
// of a user session; an unknown key reads as not found so the endpoint
// does not confirm which keys exist.
type StudyRegistryService struct {
	completions completionRepository
	authz       registryAuthorizer
	logger      *zap.Logger
}

// NewStudyRegistryService constructs a StudyRegistryService.
func NewStudyRegistryService(completions completionRepository, authorizer registryAuthorizer, logger *zap.Logger) *StudyRegistryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyRegistryService{completions: completions, authz: authorizer, logger: logger}
}

// CourseCompletions returns every completion recorded for the course.
func (s *StudyRegistryService) CourseCompletions(ctx context.Context, secretKey string, courseID uuid.UUID) (authz.Token, []models.CourseModuleCompletion, error) {
	if secretKey == "" {
		return authz.Token{}, nil, appErrors.ErrNotFound
	}
	token, err := s.authz.Authorize(ctx, authz.ActionView, nil, authz.ResourceStudyRegistry(secretKey))
	if err != nil {
		return authz.Token{}, nil, err
	}
	completions, err := s.completions.ListByCourse(ctx, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	s.logger.Info("completions exported",
		zap.String("course_id", courseID.String()),
		zap.Int("count", len(completions)),
	)
	return token, completions, nil
}
