package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	"github.com/eduside/lms-api/pkg/config"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type materialPageRepository interface {
	FindByCourseAndPath(ctx context.Context, courseID uuid.UUID, urlPath string) (*models.Page, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Page, error)
}

type materialChapterRepository interface {
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Chapter, error)
}

type materialCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type materialAccess interface {
	AuthorizeCourseMaterialAccess(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, error)
}

type cacheObserver interface {
	ObserveCacheHit(hit bool)
}

// MaterialService serves rendered course material: published courses to
// anyone, drafts to users with material viewing rights. Page reads go
// through Redis; the payload is the same for every viewer, so caching
// after the access check is safe.
type MaterialService struct {
	pages    materialPageRepository
	chapters materialChapterRepository
	cache    materialCache
	access   materialAccess
	metrics  cacheObserver
	logger   *zap.Logger
	config   config.MaterialConfig
}

// NewMaterialService constructs a MaterialService. metrics may be nil.
func NewMaterialService(pages materialPageRepository, chapters materialChapterRepository, cache materialCache, access materialAccess, metrics cacheObserver, logger *zap.Logger, cfg config.MaterialConfig) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{pages: pages, chapters: chapters, cache: cache, access: access, metrics: metrics, logger: logger, config: cfg}
}

// GetPage returns a course page by its url path.
func (s *MaterialService) GetPage(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID, urlPath string) (authz.Token, *models.Page, error) {
	token, err := s.access.AuthorizeCourseMaterialAccess(ctx, userID, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}

	key := pageCacheKey(courseID, urlPath)
	if s.config.CacheEnabled {
		var cached models.Page
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.ObserveCacheHit(true)
			}
			return token, &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("material cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.ObserveCacheHit(false)
		}
	}

	page, err := s.pages.FindByCourseAndPath(ctx, courseID, urlPath)
	if err != nil {
		return authz.Token{}, nil, err
	}

	if s.config.CacheEnabled {
		if err := s.cache.Set(ctx, key, page, s.config.CacheTTL); err != nil {
			s.logger.Warn("material cache write failed", zap.Error(err))
		}
	}
	return token, page, nil
}

// ListPages returns a course's pages in reading order.
func (s *MaterialService) ListPages(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, []models.Page, error) {
	token, err := s.access.AuthorizeCourseMaterialAccess(ctx, userID, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	pages, err := s.pages.ListByCourse(ctx, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, pages, nil
}

// ListChapters returns a course's chapters.
func (s *MaterialService) ListChapters(ctx context.Context, userID *uuid.UUID, courseID uuid.UUID) (authz.Token, []models.Chapter, error) {
	token, err := s.access.AuthorizeCourseMaterialAccess(ctx, userID, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	chapters, err := s.chapters.ListByCourse(ctx, courseID)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, chapters, nil
}

// InvalidateCourse drops every cached page of a course, called after
// content edits and duplications.
func (s *MaterialService) InvalidateCourse(ctx context.Context, courseID uuid.UUID) {
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("material:%s:*", courseID)); err != nil {
		s.logger.Warn("material cache invalidation failed", zap.Error(err))
	}
}

func pageCacheKey(courseID uuid.UUID, urlPath string) string {
	return fmt.Sprintf("material:%s:%s", courseID, urlPath)
}
