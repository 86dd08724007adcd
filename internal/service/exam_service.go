package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type examRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ExamWithPage, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Exam, error)
}

type examCopier interface {
	CopyExam(ctx context.Context, examID uuid.UUID, newExam models.NewExam) (*models.ExamWithPage, error)
}

// ExamService handles exam workflows, including duplication.
type ExamService struct {
	repo      examRepository
	copier    examCopier
	authz     authorizer
	metrics   copyObserver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs an ExamService. metrics may be nil.
func NewExamService(repo examRepository, copier examCopier, authorizer authorizer, metrics copyObserver, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, copier: copier, authz: authorizer, metrics: metrics, validator: validate, logger: logger}
}

// Get returns an exam the caller may teach.
func (s *ExamService) Get(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (authz.Token, *models.ExamWithPage, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionTeach, userID, authz.ResourceExam(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, exam, nil
}

// ListByOrganization returns an organization's exams.
func (s *ExamService) ListByOrganization(ctx context.Context, userID *uuid.UUID, organizationID uuid.UUID) (authz.Token, []models.Exam, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceOrganization(organizationID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	exams, err := s.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, exams, nil
}

// Duplicate deep-copies an exam within its organization. The copy keeps
// the source's organization, language and instructions; scheduling comes
// from the request.
func (s *ExamService) Duplicate(ctx context.Context, userID *uuid.UUID, sourceID uuid.UUID, req models.NewExam) (authz.Token, *models.ExamWithPage, error) {
	if err := s.validator.Struct(req); err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	token, err := s.authz.Authorize(ctx, authz.ActionDuplicate, userID, authz.ResourceExam(sourceID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	start := time.Now()
	exam, err := s.copier.CopyExam(ctx, sourceID, req)
	if s.metrics != nil {
		s.metrics.ObserveCopy("exam", err, time.Since(start))
	}
	if err != nil {
		return authz.Token{}, nil, err
	}
	s.logger.Info("exam duplicated",
		zap.String("source_exam_id", sourceID.String()),
		zap.String("copied_exam_id", exam.ID.String()),
	)
	return token, exam, nil
}
