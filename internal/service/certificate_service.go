package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/pkg/config"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/export"
)

type certificateCompletionRepository interface {
	FindForUser(ctx context.Context, courseModuleID, userID uuid.UUID) (*models.CourseModuleCompletion, error)
}

type certificateCourseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	FindModuleByID(ctx context.Context, id uuid.UUID) (*models.CourseModule, error)
}

type certificateUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type certificateRenderer interface {
	Render(cert export.Certificate) ([]byte, error)
}

// CertificateService generates completion certificates as PDFs. Users
// can download their own certificates; downloading someone else's
// requires teaching rights on the course.
type CertificateService struct {
	completions certificateCompletionRepository
	courses     certificateCourseRepository
	users       certificateUserRepository
	renderer    certificateRenderer
	authz       authorizer
	logger      *zap.Logger
	config      config.CertificateConfig
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(
	completions certificateCompletionRepository,
	courses certificateCourseRepository,
	users certificateUserRepository,
	renderer certificateRenderer,
	authorizer authorizer,
	logger *zap.Logger,
	cfg config.CertificateConfig,
) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{
		completions: completions,
		courses:     courses,
		users:       users,
		renderer:    renderer,
		authz:       authorizer,
		logger:      logger,
		config:      cfg,
	}
}

// Generate renders the certificate for targetUserID's passed completion
// of the course module. Missing or failed completions read as not found.
func (s *CertificateService) Generate(ctx context.Context, callerID *uuid.UUID, targetUserID, courseModuleID uuid.UUID) (authz.Token, []byte, error) {
	if !s.config.Enabled {
		return authz.Token{}, nil, appErrors.ErrNotFound
	}

	module, err := s.courses.FindModuleByID(ctx, courseModuleID)
	if err != nil {
		return authz.Token{}, nil, err
	}

	var token authz.Token
	if callerID != nil && *callerID == targetUserID {
		token, err = s.authz.Authorize(ctx, authz.ActionView, callerID, authz.ResourceCourse(module.CourseID))
	} else {
		token, err = s.authz.Authorize(ctx, authz.ActionTeach, callerID, authz.ResourceCourse(module.CourseID))
	}
	if err != nil {
		return authz.Token{}, nil, err
	}

	completion, err := s.completions.FindForUser(ctx, courseModuleID, targetUserID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	course, err := s.courses.FindByID(ctx, module.CourseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	user, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return authz.Token{}, nil, err
	}

	moduleName := course.Name
	if module.Name != nil {
		moduleName = *module.Name
	}
	pdf, err := s.renderer.Render(export.Certificate{
		StudentName: user.DisplayName(),
		CourseName:  course.Name,
		ModuleName:  moduleName,
		Grade:       completion.Grade,
		CompletedAt: completion.CompletionDate,
		SignerName:  s.config.SignerName,
	})
	if err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}

	s.logger.Info("certificate generated",
		zap.String("user_id", targetUserID.String()),
		zap.String("course_module_id", courseModuleID.String()),
	)
	return token, pdf, nil
}
