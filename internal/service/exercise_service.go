package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
)

type exerciseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Exercise, error)
	ListSlides(ctx context.Context, exerciseID uuid.UUID) ([]models.ExerciseSlide, error)
	ListTasks(ctx context.Context, slideID uuid.UUID) ([]models.ExerciseTask, error)
}

// ExerciseWithSlides is the teacher-facing exercise view, including each
// slide's tasks with their private specs.
type ExerciseWithSlides struct {
	models.Exercise
	Slides []SlideWithTasks `json:"slides"`
}

// SlideWithTasks pairs a slide with its tasks.
type SlideWithTasks struct {
	models.ExerciseSlide
	Tasks []models.ExerciseTask `json:"tasks"`
}

// ExerciseService handles exercise reads.
type ExerciseService struct {
	repo   exerciseRepository
	authz  authorizer
	logger *zap.Logger
}

// NewExerciseService constructs an ExerciseService.
func NewExerciseService(repo exerciseRepository, authorizer authorizer, logger *zap.Logger) *ExerciseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExerciseService{repo: repo, authz: authorizer, logger: logger}
}

// Get returns an exercise with its slides and tasks. The task rows carry
// private and model solution specs, so this view requires teaching
// rights on the owning course or exam.
func (s *ExerciseService) Get(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (authz.Token, *ExerciseWithSlides, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionTeach, userID, authz.ResourceExercise(id))
	if err != nil {
		return authz.Token{}, nil, err
	}
	exercise, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return authz.Token{}, nil, err
	}
	slides, err := s.repo.ListSlides(ctx, id)
	if err != nil {
		return authz.Token{}, nil, err
	}
	out := &ExerciseWithSlides{Exercise: *exercise, Slides: make([]SlideWithTasks, 0, len(slides))}
	for _, slide := range slides {
		tasks, err := s.repo.ListTasks(ctx, slide.ID)
		if err != nil {
			return authz.Token{}, nil, err
		}
		out.Slides = append(out.Slides, SlideWithTasks{ExerciseSlide: slide, Tasks: tasks})
	}
	return token, out, nil
}

// ListByCourse returns a course's exercises without slide details.
func (s *ExerciseService) ListByCourse(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, []models.Exercise, error) {
	token, err := s.authz.Authorize(ctx, authz.ActionView, userID, authz.ResourceCourse(courseID))
	if err != nil {
		return authz.Token{}, nil, err
	}
	exercises, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, exercises, nil
}
