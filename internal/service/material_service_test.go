package service

import (
	"context"
	"encoding/json"
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
)

type mockMaterialAccess struct {
	err   error
	calls int
}

func (m *mockMaterialAccess) AuthorizeCourseMaterialAccess(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, error) {
	m.calls++
	if m.err != nil {
		return authz.Token{}, m.err
	}
	return authz.SkipAuthorize(), nil
}

type mockPageRepo struct {
	page   *models.Page
	pages  []models.Page
	err    error
	lookups int
}

func (m *mockPageRepo) FindByCourseAndPath(ctx context.Context, courseID uuid.UUID, urlPath string) (*models.Page, error) {
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockPageRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Page, error) {
	return m.pages, nil
}

type mockChapterRepo struct {
	chapters []models.Chapter
}

func (m *mockChapterRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Chapter, error) {
	return m.chapters, nil
}

type mockMaterialCache struct {
	entries        map[string][]byte
	deletedPattern string
}

func (m *mockMaterialCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockMaterialCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	return nil
}

func (m *mockMaterialCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPattern = pattern
	m.entries = nil
	return nil
}

type mockCacheObserver struct {
	hits   int
	misses int
}

func (m *mockCacheObserver) ObserveCacheHit(hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func cachingConfig() config.MaterialConfig {
	return config.MaterialConfig{CacheEnabled: true, CacheTTL: 5 * time.Minute}
}

func TestMaterialServiceGetPageCachesAfterMiss(t *testing.T) {
	courseID := uuid.New()
	page := &models.Page{ID: uuid.New(), URLPath: "/chapter-1", Title: "Chapter 1", Content: json.RawMessage(`[]`)}
	pages := &mockPageRepo{page: page}
	cache := &mockMaterialCache{}
	observer := &mockCacheObserver{}
	svc := NewMaterialService(pages, &mockChapterRepo{}, cache, &mockMaterialAccess{}, observer, zap.NewNop(), cachingConfig())

	_, got, err := svc.GetPage(context.Background(), nil, courseID, "/chapter-1")
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)
	assert.Equal(t, 1, pages.lookups)
	assert.Equal(t, 1, observer.misses)

	// second read is served from the cache
	_, got, err = svc.GetPage(context.Background(), nil, courseID, "/chapter-1")
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)
	assert.Equal(t, 1, pages.lookups)
	assert.Equal(t, 1, observer.hits)
}

func TestMaterialServiceGetPageSkipsCacheWhenDisabled(t *testing.T) {
	pages := &mockPageRepo{page: &models.Page{ID: uuid.New()}}
	cache := &mockMaterialCache{}
	svc := NewMaterialService(pages, &mockChapterRepo{}, cache, &mockMaterialAccess{}, nil, zap.NewNop(), config.MaterialConfig{})

	_, _, err := svc.GetPage(context.Background(), nil, uuid.New(), "/p")
	require.NoError(t, err)
	_, _, err = svc.GetPage(context.Background(), nil, uuid.New(), "/p")
	require.NoError(t, err)
	assert.Equal(t, 2, pages.lookups)
	assert.Empty(t, cache.entries)
}

func TestMaterialServiceGetPageChecksAccessFirst(t *testing.T) {
	access := &mockMaterialAccess{err: appErrors.Clone(appErrors.ErrUnauthorized, "the course is not public")}
	pages := &mockPageRepo{page: &models.Page{ID: uuid.New()}}
	svc := NewMaterialService(pages, &mockChapterRepo{}, &mockMaterialCache{}, access, nil, zap.NewNop(), cachingConfig())

	_, _, err := svc.GetPage(context.Background(), nil, uuid.New(), "/p")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Zero(t, pages.lookups, "the repository must not be hit for denied callers")
}

func TestMaterialServiceInvalidateCourse(t *testing.T) {
	courseID := uuid.New()
	cache := &mockMaterialCache{entries: map[string][]byte{"material:" + courseID.String() + ":/p": []byte(`{}`)}}
	svc := NewMaterialService(&mockPageRepo{}, &mockChapterRepo{}, cache, &mockMaterialAccess{}, nil, zap.NewNop(), cachingConfig())

	svc.InvalidateCourse(context.Background(), courseID)
	assert.Equal(t, "material:"+courseID.String()+":*", cache.deletedPattern)
	assert.Empty(t, cache.entries)
}

func TestMaterialServiceListChapters(t *testing.T) {
	chapters := []models.Chapter{{ID: uuid.New(), Name: "Basics"}}
	svc := NewMaterialService(&mockPageRepo{}, &mockChapterRepo{chapters: chapters}, &mockMaterialCache{}, &mockMaterialAccess{}, nil, zap.NewNop(), cachingConfig())

	_, got, err := svc.ListChapters(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, chapters, got)
}
