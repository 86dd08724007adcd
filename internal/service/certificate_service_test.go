package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/pkg/config"
	appErrors "github.com/eduside/lms-api/pkg/errors"
	"github.com/eduside/lms-api/pkg/export"
)

type mockCertificateCourseRepo struct {
	course *models.Course
	module *models.CourseModule
}

func (m *mockCertificateCourseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if m.course == nil {
		return nil, appErrors.ErrNotFound
	}
	return m.course, nil
}

func (m *mockCertificateCourseRepo) FindModuleByID(ctx context.Context, id uuid.UUID) (*models.CourseModule, error) {
	if m.module == nil {
		return nil, appErrors.ErrNotFound
	}
	return m.module, nil
}

type mockRenderer struct {
	rendered *export.Certificate
}

func (m *mockRenderer) Render(cert export.Certificate) ([]byte, error) {
	m.rendered = &cert
	return []byte("%PDF-1.4"), nil
}

func certificateFixture(t *testing.T) (*mockCertificateCourseRepo, *mockCompletionRepo, *mockUserRepo, *models.User, uuid.UUID) {
	t.Helper()
	courseID := uuid.New()
	moduleID := uuid.New()
	user := &models.User{ID: uuid.New(), Email: "student@example.com"}
	grade := 5
	courses := &mockCertificateCourseRepo{
		course: &models.Course{ID: courseID, Name: "Intro to Go"},
		module: &models.CourseModule{ID: moduleID, CourseID: courseID},
	}
	completions := &mockCompletionRepo{latest: &models.CourseModuleCompletion{
		ID: uuid.New(), CourseID: courseID, CourseModuleID: moduleID, UserID: user.ID,
		Grade: &grade, Passed: true, CompletionDate: time.Now(),
	}}
	users := &mockUserRepo{users: map[string]*models.User{user.Email: user}}
	return courses, completions, users, user, moduleID
}

func TestCertificateServiceSelfDownload(t *testing.T) {
	courses, completions, users, user, moduleID := certificateFixture(t)
	renderer := &mockRenderer{}
	az := &mockAuthorizer{}
	svc := NewCertificateService(completions, courses, users, renderer, az, zap.NewNop(),
		config.CertificateConfig{Enabled: true, SignerName: "Head of Studies"})

	_, pdf, err := svc.Generate(context.Background(), &user.ID, user.ID, moduleID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	// downloading your own certificate only needs viewing rights
	assert.Equal(t, []string{authz.ActionView.String()}, az.actions)
	require.NotNil(t, renderer.rendered)
	assert.Equal(t, "student@example.com", renderer.rendered.StudentName)
	assert.Equal(t, "Intro to Go", renderer.rendered.CourseName)
	assert.Equal(t, "Head of Studies", renderer.rendered.SignerName)
}

func TestCertificateServiceOthersRequireTeach(t *testing.T) {
	courses, completions, users, user, moduleID := certificateFixture(t)
	az := &mockAuthorizer{}
	az.deny(authz.ActionTeach, appErrors.ErrForbidden)
	svc := NewCertificateService(completions, courses, users, &mockRenderer{}, az, zap.NewNop(),
		config.CertificateConfig{Enabled: true})

	callerID := uuid.New()
	_, _, err := svc.Generate(context.Background(), &callerID, user.ID, moduleID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Equal(t, []string{authz.ActionTeach.String()}, az.actions)
}

func TestCertificateServiceDisabled(t *testing.T) {
	courses, completions, users, user, moduleID := certificateFixture(t)
	az := &mockAuthorizer{}
	svc := NewCertificateService(completions, courses, users, &mockRenderer{}, az, zap.NewNop(),
		config.CertificateConfig{})

	_, _, err := svc.Generate(context.Background(), &user.ID, user.ID, moduleID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, az.actions)
}

func TestCertificateServiceMissingCompletion(t *testing.T) {
	courses, _, users, user, moduleID := certificateFixture(t)
	svc := NewCertificateService(&mockCompletionRepo{}, courses, users, &mockRenderer{}, &mockAuthorizer{}, zap.NewNop(),
		config.CertificateConfig{Enabled: true})

	_, _, err := svc.Generate(context.Background(), &user.ID, user.ID, moduleID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
