package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type mockCompletionRepo struct {
	completions []models.CourseModuleCompletion
	latest      *models.CourseModuleCompletion
}

func (m *mockCompletionRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CourseModuleCompletion, error) {
	return m.completions, nil
}

func (m *mockCompletionRepo) FindForUser(ctx context.Context, courseModuleID, userID uuid.UUID) (*models.CourseModuleCompletion, error) {
	if m.latest == nil {
		return nil, appErrors.ErrNotFound
	}
	return m.latest, nil
}

func TestStudyRegistryServiceCourseCompletions(t *testing.T) {
	courseID := uuid.New()
	completions := []models.CourseModuleCompletion{
		{ID: uuid.New(), CourseID: courseID, UserID: uuid.New(), Passed: true, CompletionDate: time.Now()},
	}
	az := &mockAuthorizer{}
	svc := NewStudyRegistryService(&mockCompletionRepo{completions: completions}, az, zap.NewNop())

	_, got, err := svc.CourseCompletions(context.Background(), "registrar-key", courseID)
	require.NoError(t, err)
	assert.Equal(t, completions, got)
}

func TestStudyRegistryServiceEmptyKeyIsNotFound(t *testing.T) {
	az := &mockAuthorizer{}
	svc := NewStudyRegistryService(&mockCompletionRepo{}, az, zap.NewNop())

	_, _, err := svc.CourseCompletions(context.Background(), "", uuid.New())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, az.actions, "an empty key never reaches the resolver")
}
