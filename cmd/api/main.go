package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eduside/lms-api/api/swagger"
	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/copying"
	"github.com/eduside/lms-api/internal/handler"
	"github.com/eduside/lms-api/internal/middleware"
	"github.com/eduside/lms-api/internal/repository"
	"github.com/eduside/lms-api/internal/service"
	"github.com/eduside/lms-api/pkg/cache"
	"github.com/eduside/lms-api/pkg/config"
	"github.com/eduside/lms-api/pkg/database"
	"github.com/eduside/lms-api/pkg/export"
	"github.com/eduside/lms-api/pkg/logger"
	corsmiddleware "github.com/eduside/lms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduside/lms-api/pkg/middleware/requestid"
)

// @title LMS API
// @version 1.0.0
// @description Course material backend with role-based authorization and content duplication
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, material caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// repositories
	authzRepo := repository.NewAuthorizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	pageRepo := repository.NewPageRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	examRepo := repository.NewExamRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// core components
	resolver := authz.NewResolver(authzRepo, logr)
	engine := copying.NewEngine(db, logr)

	// services
	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, tokenRepo, validate, logr, cfg.JWT)
	organizationService := service.NewOrganizationService(organizationRepo, resolver, logr)
	courseService := service.NewCourseService(courseRepo, engine, resolver, metricsService, validate, logr)
	examService := service.NewExamService(examRepo, engine, resolver, metricsService, validate, logr)
	materialService := service.NewMaterialService(pageRepo, chapterRepo, cacheRepo, resolver, metricsService, logr, cfg.Material)
	pageService := service.NewPageService(pageRepo, materialService, resolver, validate, logr)
	exerciseService := service.NewExerciseService(exerciseRepo, resolver, logr)
	roleService := service.NewRoleService(roleRepo, userRepo, resolver, validate, logr)
	registryService := service.NewStudyRegistryService(completionRepo, resolver, logr)
	certificateService := service.NewCertificateService(
		completionRepo, courseRepo, userRepo, export.NewCertificateRenderer(), resolver, logr, cfg.Certificates)

	// handlers
	authHandler := handler.NewAuthHandler(authService)
	organizationHandler := handler.NewOrganizationHandler(organizationService, courseService, examService)
	courseHandler := handler.NewCourseHandler(courseService)
	materialHandler := handler.NewMaterialHandler(materialService, exerciseService)
	pageHandler := handler.NewPageHandler(pageService)
	examHandler := handler.NewExamHandler(examService)
	roleHandler := handler.NewRoleHandler(roleService)
	certificateHandler := handler.NewCertificateHandler(certificateService)
	registryHandler := handler.NewStudyRegistryHandler(registryService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	// material delivery works without a session for published courses
	public := api.Group("")
	public.Use(middleware.OptionalJWT(authService))
	{
		public.GET("/organizations", organizationHandler.List)
		public.GET("/organizations/:id", organizationHandler.Get)
		public.GET("/organizations/:id/courses", organizationHandler.Courses)
		public.GET("/courses/:id", courseHandler.Get)
		public.GET("/courses/:id/material/page", materialHandler.Page)
		public.GET("/courses/:id/material/pages", materialHandler.Pages)
		public.GET("/courses/:id/material/chapters", materialHandler.Chapters)
		public.GET("/courses/:id/exercises", materialHandler.Exercises)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))
	{
		protected.GET("/organizations/:id/exams", organizationHandler.Exams)

		protected.POST("/courses", courseHandler.Create)
		protected.PUT("/courses/:id", courseHandler.Update)
		protected.DELETE("/courses/:id", courseHandler.Delete)
		protected.POST("/courses/:id/duplicate", courseHandler.Duplicate)
		protected.GET("/courses/:id/instances", courseHandler.Instances)
		protected.GET("/courses/:id/modules", courseHandler.Modules)

		protected.GET("/pages/:id", pageHandler.Get)
		protected.PUT("/pages/:id/content", pageHandler.UpdateContent)

		protected.GET("/exercises/:id", materialHandler.Exercise)

		protected.GET("/exams/:id", examHandler.Get)
		protected.POST("/exams/:id/duplicate", examHandler.Duplicate)

		protected.GET("/roles", roleHandler.List)
		protected.POST("/roles", roleHandler.Set)
		protected.DELETE("/roles", roleHandler.Unset)

		protected.GET("/course-modules/:module_id/certificate", certificateHandler.Download)
	}

	// registrars authenticate with a secret key, not a user session
	api.GET("/study-registry/courses/:id/completions", registryHandler.CourseCompletions)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
