package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/internal/service"
	"github.com/eduside/lms-api/pkg/config"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type userRepoStub struct {
	user *models.User
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, appErrors.ErrNotFound
	}
	return s.user, nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return s.user, nil
}

type tokenRepoStub struct{}

func (s *tokenRepoStub) Store(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	return nil
}

func (s *tokenRepoStub) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	return nil, appErrors.ErrUnauthorized
}

func (s *tokenRepoStub) Revoke(ctx context.Context, token string) error { return nil }

func authServiceForTest(t *testing.T) (*service.AuthService, string, uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash)}
	svc := service.NewAuthService(&userRepoStub{user: user}, &tokenRepoStub{}, nil, zap.NewNop(), config.JWTConfig{
		Secret: "test-secret", Expiration: time.Hour, RefreshExpiration: time.Hour,
	})
	login, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "password"})
	require.NoError(t, err)
	return svc, login.AccessToken, user.ID
}

func newRouter(handler gin.HandlerFunc, protect gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", protect, handler)
	return r
}

func probe(c *gin.Context) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}
	claims := value.(*models.JWTClaims)
	c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
}

func TestJWTMiddleware(t *testing.T) {
	svc, token, userID := authServiceForTest(t)
	r := newRouter(probe, JWT(svc))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())

	// missing header blocks the request
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// garbage tokens block the request
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTMiddleware(t *testing.T) {
	svc, token, userID := authServiceForTest(t)
	r := newRouter(probe, OptionalJWT(svc))

	// anonymous callers pass through without claims
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anonymous")

	// a valid token attaches claims
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())

	// an invalid token degrades to anonymous instead of blocking
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anonymous")
}
