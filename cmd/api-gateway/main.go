package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/elearn-api/api/swagger"
	"github.com/noah-isme/elearn-api/internal/handler"
	"github.com/noah-isme/elearn-api/internal/middleware"
	"github.com/noah-isme/elearn-api/internal/models"
	"github.com/noah-isme/elearn-api/internal/repository"
	"github.com/noah-isme/elearn-api/internal/service"
	"github.com/noah-isme/elearn-api/pkg/cache"
	"github.com/noah-isme/elearn-api/pkg/config"
	"github.com/noah-isme/elearn-api/pkg/database"
	"github.com/noah-isme/elearn-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/elearn-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/elearn-api/pkg/middleware/requestid"
)

// @title Elearn Analytics API
// @version 1.0.0
// @description Learning analytics and ranking engine
// @BasePath /
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
		logr.Sugar().Warnw("redis unavailable, dashboards run uncached", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.StudentTTL, logr, cfg.Dashboard.Enabled && redisClient != nil)

	validate := validator.New()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "elearn-api",
	})

	profileSvc := service.NewProfileService(profileRepo, logr)
	streakSvc := service.NewStreakService(service.StreakServiceParams{Activity: activityRepo, Logger: logr})
	completionSvc := service.NewCompletionService(service.CompletionServiceParams{
		Catalog:  catalogRepo,
		Activity: activityRepo,
		Logger:   logr,
	})
	rankingSvc := service.NewRankingService(service.RankingServiceParams{
		Activity: activityRepo,
		Grades:   gradeRepo,
		Logger:   logr,
		Config:   service.RankingServiceConfig{TopN: cfg.Ranking.TopN},
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Profiles:   profileSvc,
		Streaks:    streakSvc,
		Completion: completionSvc,
		Ranking:    rankingSvc,
		Catalog:    catalogRepo,
		Activity:   activityRepo,
		Grades:     gradeRepo,
		Students:   profileRepo,
		Cache:      cacheSvc,
		Metrics:    metricsSvc,
		Logger:     logr,
		Config: service.DashboardServiceConfig{
			StudentTTL: cfg.Dashboard.StudentTTL,
			KidsTTL:    cfg.Dashboard.KidsTTL,
			GardenTTL:  cfg.Dashboard.GardenTTL,
			ParentTTL:  cfg.Dashboard.ParentTTL,
			TeacherTTL: cfg.Dashboard.TeacherTTL,
			AdminTTL:   cfg.Dashboard.AdminTTL,
		},
	})
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Ranking:    rankingSvc,
		Profiles:   profileRepo,
		Students:   profileSvc,
		Completion: completionSvc,
		Logger:     logr,
	})

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", readiness(db))
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	dashboards := api.Group("/dashboard", middleware.JWT(authSvc))
	{
		dashboards.GET("/student", middleware.RequireRoles(models.RoleStudent), dashboardHandler.Student)
		dashboards.GET("/kids", middleware.RequireRoles(models.RoleStudent), dashboardHandler.Kids)
		dashboards.GET("/garden", middleware.RequireRoles(models.RoleStudent), dashboardHandler.Garden)
		dashboards.GET("/parent", middleware.RequireRoles(models.RoleParent), dashboardHandler.Parent)
		dashboards.GET("/teacher", middleware.RequireRoles(models.RoleTeacher), dashboardHandler.Teacher)
		dashboards.GET("/admin", middleware.RequireRoles(models.RoleAdmin), dashboardHandler.Admin)
	}

	if cfg.Exports.Enabled {
		exports := api.Group("/exports", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
		{
			exports.GET("/leaderboard", exportHandler.ScopeLeaderboard)
			exports.GET("/leaderboard/grades/:grade", exportHandler.GradeLeaderboard)
			exports.GET("/students/:id/progress", exportHandler.StudentProgress)
		}
	}

	api.GET("/metrics/system", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), metricsHandler.System)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func readiness(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
