// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/handlers"
	"github.com/isabitv/isabitv-backend/internal/middleware"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}

	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db, storageService)
	videoService := services.NewVideoService(db, storageService)
	contestService := services.NewContestService(db, notificationService)
	entryService := services.NewEntryService(db, notificationService)
	winnerService := services.NewWinnerService(db, cfg, contestService, notificationService)
	reportService := services.NewReportService(db, notificationService)
	payoutService := services.NewPayoutService(db, cfg, notificationService)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	videoHandler := handlers.NewVideoHandler(videoService)
	contestHandler := handlers.NewContestHandler(contestService, winnerService)
	entryHandler := handlers.NewEntryHandler(entryService, userService)
	reportHandler := handlers.NewReportHandler(reportService)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWTSecret())

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.Metrics())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")

	// Public read surface, always mounted
	{
		contests := v1.Group("/contests")
		{
			contests.GET("", middleware.OptionalAuth(), contestHandler.ListPublic)
			contests.GET("/:id", middleware.OptionalAuth(), contestHandler.Get)
			contests.GET("/:id/results", contestHandler.Results)
			contests.GET("/:id/entries", entryHandler.ListPublic)
		}

		videos := v1.Group("/videos")
		{
			videos.GET("", videoHandler.List)
			videos.GET("/:id", videoHandler.Get)
		}

		creators := v1.Group("/creators")
		{
			creators.GET("", userHandler.ListCreators)
			creators.GET("/:id/videos", videoHandler.ListByCreator)
		}

		v1.GET("/users/:id", userHandler.GetPublicProfile)
		v1.GET("/entries/:id", middleware.OptionalAuth(), entryHandler.Get)
	}

	// Everything past the public reads needs a working identity layer.
	// Without a signing secret the write surface stays unmounted.
	if !cfg.AuthEnabled() {
		logrus.Warn("JWT secret not configured, serving public read routes only")
		return r
	}

	// Authentication routes
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/verify-email/:token", authHandler.VerifyEmail)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}

	// Authenticated user surface
	profile := v1.Group("/profile")
	profile.Use(middleware.AuthRequired())
	{
		profile.PUT("", userHandler.UpdateProfile)
		profile.POST("/avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
		profile.DELETE("", userHandler.DeleteAccount)
	}

	my := v1.Group("/my")
	my.Use(middleware.AuthRequired())
	{
		my.GET("/entries", entryHandler.ListMine)
		my.GET("/earnings", payoutHandler.EarningsSummary)
		my.GET("/payouts", payoutHandler.ListMine)
	}

	// Creator surface
	authed := v1.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/videos", middleware.UploadRateLimit(), middleware.RoleRequired(models.RoleCreator), videoHandler.Upload)
		authed.DELETE("/videos/:id", videoHandler.Delete)

		// Engagement counters come from the analytics pipeline, not from
		// end users; the ingest routes are admin-capability only.
		authed.POST("/videos/:id/engagement", middleware.RoleRequired(models.RoleAdmin), videoHandler.RecordEngagement)
		authed.POST("/entries/:id/engagement", middleware.RoleRequired(models.RoleAdmin), entryHandler.RecordEngagement)

		authed.POST("/contests/:id/entries", middleware.RoleRequired(models.RoleCreator), entryHandler.Submit)
		authed.POST("/reports", reportHandler.Create)
		authed.POST("/payouts", middleware.RoleRequired(models.RoleCreator), payoutHandler.Request)
	}

	// Moderation surface
	moderation := v1.Group("/moderation")
	moderation.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleModerator))
	{
		moderation.GET("/contests/:id/entries", entryHandler.ModerationQueue)
		moderation.POST("/entries/:id/approve", entryHandler.Approve)
		moderation.POST("/entries/:id/reject", entryHandler.Reject)
		moderation.POST("/entries/:id/flag", entryHandler.Flag)
		moderation.POST("/entries/:id/return", entryHandler.ReturnForReview)
		moderation.POST("/entries/:id/score", entryHandler.Score)

		moderation.GET("/reports", reportHandler.List)
		moderation.GET("/reports/:id", reportHandler.Get)
		moderation.POST("/reports/:id/assign", reportHandler.Assign)
		moderation.POST("/reports/:id/close", reportHandler.Close)
	}

	// Admin surface
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		adminContests := admin.Group("/contests")
		{
			adminContests.GET("", contestHandler.AdminList)
			adminContests.POST("", contestHandler.Create)
			adminContests.PUT("/:id", contestHandler.Update)
			adminContests.DELETE("/:id", contestHandler.Delete)
			adminContests.POST("/:id/launch", contestHandler.Launch)
			adminContests.POST("/:id/judging", contestHandler.BeginJudging)
			adminContests.POST("/:id/cancel", contestHandler.Cancel)
			adminContests.GET("/:id/candidates", contestHandler.Candidates)
			adminContests.POST("/:id/publish", contestHandler.PublishResults)
		}

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", adminHandler.ListUsers)
			adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
			adminUsers.PUT("/:id/verify", adminHandler.VerifyCreator)
		}

		adminPayouts := admin.Group("/payouts")
		{
			adminPayouts.GET("", payoutHandler.AdminList)
			adminPayouts.POST("/:id/process", payoutHandler.Process)
			adminPayouts.POST("/:id/reject", payoutHandler.Reject)
		}

		adminSettings := admin.Group("/settings")
		{
			adminSettings.GET("", adminHandler.GetSettings)
			adminSettings.PUT("", adminHandler.UpdateSetting)
		}

		admin.GET("/audit-logs", adminHandler.AuditLogs)
		admin.GET("/notifications", adminHandler.Notifications)
		admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
		admin.GET("/analytics", adminHandler.Analytics)
	}

	return r
}
