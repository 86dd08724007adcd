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

type courseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, page, pageSize int) ([]models.Course, int, error)
	Create(ctx context.Context, newCourse models.NewCourse) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, update models.UpdateCourse) (*models.Course, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListInstances(ctx context.Context, courseID uuid.UUID) ([]models.CourseInstance, error)
	ListModules(ctx context.Context, courseID uuid.UUID) ([]models.CourseModule, error)
}

type courseCopier interface {
	CopyCourse(ctx context.Context, courseID uuid.UUID, newCourse models.NewCourse, sameLanguageGroup bool) (*models.Course, error)
}

type authorizer interface {
	Authorize(ctx context.Context, action authz.Action, userID *uuid.UUID, resource authz.Resource) (authz.Token, error)
}

type copyObserver interface {
	ObserveCopy(kind string, err error, duration time.Duration)
}

// DuplicateCourseRequest describes a course duplication payload. The new
// course reuses the source's language group when the copy is a
// translation of the same material.
type DuplicateCourseRequest struct {
	models.NewCourse
	SameLanguageGroup bool `json:"same_language_group"`
}

// CourseService handles course workflows, including duplication.
type CourseService struct {
	repo      courseRepository
	copier    courseCopier
	authz     authorizer
	metrics   copyObserver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService. metrics may be nil.
func NewCourseService(repo courseRepository, copier courseCopier, authorizer authorizer, metrics copyObserver, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, copier: copier, authz: authorizer, metrics: metrics, validator: validate, logger: logger}
}

// Get returns a course the caller may view.
func (s *CourseService) Get(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (authz.Token, *models.Course, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceCourse(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, course, nil
}

// ListByOrganization returns a page of the organization's courses.
func (s *CourseService) ListByOrganization(ctx context.Context, userID *uuid.UUID, organizationID uuid.UUID, page, pageSize int) (authz.Token, []models.Course, *models.Pagination, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceOrganization(organizationID))
	if err != nil {
		return authz.Token{}, nil, nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	courses, total, err := s.repo.ListByOrganization(ctx, organizationID, page, pageSize)
	if err != nil {
		return authz.Token{}, nil, nil, err
	}
	return token, courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Create adds a course to an organization. Requires course creation
// rights in that organization.
func (s *CourseService) Create(ctx context.Context, userID *uuid.UUID, req models.NewCourse) (authz.Token, *models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	token, err := s.authz.Authorize(ctx, authz.ActionCreateCoursesOrExams, userID, authz.ResourceOrganization(req.OrganizationID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	course, err := s.repo.Create(ctx, req)
	if err != nil {
		return authz.Token{}, nil, err
	}
	s.logger.Info("course created", zap.String("course_id", course.ID.String()))
	return token, course, nil
}

// Update modifies the editable fields of a course.
func (s *CourseService) Update(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req models.UpdateCourse) (authz.Token, *models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	token, err := s.authz.Authorize(ctx, authz.ActionEdit, userID, authz.ResourceCourse(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	course, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, course, nil
}

// Delete soft-deletes a course.
func (s *CourseService) Delete(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (authz.Token, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionUsuallyUnacceptableDeletion, userID, authz.ResourceCourse(id))
	if err != nil {
		return authz.Token{}, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return authz.Token{}, err
	}
	s.logger.Info("course deleted", zap.String("course_id", id.String()))
	return token, nil
}

// Duplicate deep-copies a course into a new one. Requires duplication
// rights on the source course and creation rights in the target
// organization, so a teacher cannot clone material into an organization
// they cannot create courses in.
func (s *CourseService) Duplicate(ctx context.Context, userID *uuid.UUID, sourceID uuid.UUID, req DuplicateCourseRequest) (authz.Token, *models.Course, error) {
	if err := s.validator.Struct(req.NewCourse); err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.authz.Authorize(ctx, authz.ActionDuplicate, userID, authz.ResourceCourse(sourceID)); err != nil {
		return authz.Token{}, nil, err
	}
	token, err := s.authz.Authorize(ctx, authz.ActionCreateCoursesOrExams, userID, authz.ResourceOrganization(req.OrganizationID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	start := time.Now()
	course, err := s.copier.CopyCourse(ctx, sourceID, req.NewCourse, req.SameLanguageGroup)
	if s.metrics != nil {
		s.metrics.ObserveCopy("course", err, time.Since(start))
	}
	if err != nil {
		return authz.Token{}, nil, err
	}
	s.logger.Info("course duplicated",
		zap.String("source_course_id", sourceID.String()),
		zap.String("copied_course_id", course.ID.String()),
	)
	return token, course, nil
}

// ListInstances returns a course's instances.
func (s *CourseService) ListInstances(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, []models.CourseInstance, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceCourse(courseID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	instances, err := s.repo.ListInstances(ctx, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, instances, nil
}

// ListModules returns a course's modules.
func (s *CourseService) ListModules(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, []models.CourseModule, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceCourse(courseID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	modules, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, modules, nil
}
