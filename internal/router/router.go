package router

import (
	"time"

	"skillbarter/config"
	"skillbarter/internal/handler"
	"skillbarter/internal/middleware"
	"skillbarter/internal/repository"
	"skillbarter/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	skillRepo := repository.NewSkillRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	transferSvc := service.NewTransferService(db)
	settlementSvc := service.NewSettlementService(db, transferSvc)
	sessionSvc := service.NewSessionService(db, sessionRepo, courseRepo, skillRepo, settlementSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	creditHandler := handler.NewCreditHandler(userRepo, txRepo, transferSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	courseHandler := handler.NewCourseHandler(courseRepo)
	skillHandler := handler.NewSkillHandler(skillRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		credits := api.Group("/credits")
		credits.Use(authMw)
		{
			credits.GET("/balance", creditHandler.GetBalance)
			credits.GET("/history", creditHandler.GetHistory)
			credits.POST("/transfer", creditHandler.Transfer)
		}

		sessions := api.Group("/sessions")
		sessions.Use(authMw)
		{
			sessions.POST("", sessionHandler.Schedule)
			sessions.GET("", sessionHandler.List)
			sessions.POST("/:id/join", sessionHandler.Join)
			sessions.PUT("/:id/status", sessionHandler.UpdateStatus)
		}

		courses := api.Group("/courses")
		courses.Use(authMw)
		{
			courses.GET("", courseHandler.ListMine)
			courses.GET("/:id", courseHandler.Get)
		}

		skills := api.Group("/skills")
		skills.Use(authMw)
		{
			skills.POST("", skillHandler.Create)
			skills.GET("", skillHandler.List)
		}
	}

	return r
}
