package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/middleware"
	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/internal/service"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type courseRepoStub struct {
	course *models.Course
}

func (s *courseRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if s.course == nil {
		return nil, appErrors.ErrNotFound
	}
	return s.course, nil
}

func (s *courseRepoStub) ListByOrganization(ctx context.Context, organizationID uuid.UUID, page, pageSize int) ([]models.Course, int, error) {
	return nil, 0, nil
}

func (s *courseRepoStub) Create(ctx context.Context, newCourse models.NewCourse) (*models.Course, error) {
	return s.course, nil
}

func (s *courseRepoStub) Update(ctx context.Context, id uuid.UUID, update models.UpdateCourse) (*models.Course, error) {
	return s.course, nil
}

func (s *courseRepoStub) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *courseRepoStub) ListInstances(ctx context.Context, courseID uuid.UUID) ([]models.CourseInstance, error) {
	return nil, nil
}

func (s *courseRepoStub) ListModules(ctx context.Context, courseID uuid.UUID) ([]models.CourseModule, error) {
	return nil, nil
}

type copierStub struct {
	copied *models.Course
	err    error
}

func (s *copierStub) CopyCourse(ctx context.Context, courseID uuid.UUID, newCourse models.NewCourse, sameLanguageGroup bool) (*models.Course, error) {
	return s.copied, s.err
}

type authorizerStub struct {
	err error
}

func (s *authorizerStub) Authorize(ctx context.Context, action authz.Action, userID *uuid.UUID, resource authz.Resource) (authz.Token, error) {
	if s.err != nil {
		return authz.Token{}, s.err
	}
	return authz.SkipAuthorize(), nil
}

func newCourseHandlerContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: uuid.New(), Email: "teacher@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "test"},
	})
	return c, rec
}

func duplicatePayload(organizationID uuid.UUID) []byte {
	body, _ := json.Marshal(service.DuplicateCourseRequest{
		NewCourse: models.NewCourse{
			Name: "Copy", Slug: "copy", OrganizationID: organizationID, LanguageCode: "en-US",
			TeacherInChargeName: "Teacher", TeacherInChargeEmail: "teacher@example.com",
		},
		SameLanguageGroup: true,
	})
	return body
}

func TestCourseHandlerGetInvalidID(t *testing.T) {
	svc := service.NewCourseService(&courseRepoStub{}, &copierStub{}, &authorizerStub{}, nil, nil, zap.NewNop())
	handler := NewCourseHandler(svc)

	c, rec := newCourseHandlerContext(t, http.MethodGet, "/courses/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerDuplicate(t *testing.T) {
	copied := &models.Course{ID: uuid.New(), Name: "Copy"}
	svc := service.NewCourseService(&courseRepoStub{}, &copierStub{copied: copied}, &authorizerStub{}, nil, nil, zap.NewNop())
	handler := NewCourseHandler(svc)

	sourceID := uuid.New()
	c, rec := newCourseHandlerContext(t, http.MethodPost, "/courses/"+sourceID.String()+"/duplicate", duplicatePayload(uuid.New()))
	c.Params = gin.Params{{Key: "id", Value: sourceID.String()}}

	handler.Duplicate(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), copied.ID.String())
}

func TestCourseHandlerDuplicateForbidden(t *testing.T) {
	svc := service.NewCourseService(&courseRepoStub{}, &copierStub{}, &authorizerStub{err: appErrors.ErrForbidden}, nil, nil, zap.NewNop())
	handler := NewCourseHandler(svc)

	sourceID := uuid.New()
	c, rec := newCourseHandlerContext(t, http.MethodPost, "/courses/"+sourceID.String()+"/duplicate", duplicatePayload(uuid.New()))
	c.Params = gin.Params{{Key: "id", Value: sourceID.String()}}

	handler.Duplicate(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), appErrors.ErrForbidden.Code)
}

func TestCourseHandlerDuplicateInvalidBody(t *testing.T) {
	svc := service.NewCourseService(&courseRepoStub{}, &copierStub{}, &authorizerStub{}, nil, nil, zap.NewNop())
	handler := NewCourseHandler(svc)

	sourceID := uuid.New()
	c, rec := newCourseHandlerContext(t, http.MethodPost, "/courses/"+sourceID.String()+"/duplicate", []byte(`not json`))
	c.Params = gin.Params{{Key: "id", Value: sourceID.String()}}

	handler.Duplicate(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
