package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/gridbill/gridbill/internal/config"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/server/http/handlers"
	"github.com/gridbill/gridbill/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PortalFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade, cfg.TokenTTL)
	userHandler := handlers.NewUserHandler(facade)
	billHandler := handlers.NewBillHandler(facade)
	dashboardHandler := handlers.NewDashboardHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade, facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/health", healthHandler.Check)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(facade))
	protected.GET("/users/profile", userHandler.Profile)
	protected.PUT("/users/profile", userHandler.UpdateProfile)
	protected.GET("/bills", billHandler.List)
	protected.POST("/bills/:number/pay", billHandler.Pay)
	protected.GET("/users/dashboard", dashboardHandler.Summary)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.POST("/bills", adminHandler.IssueBill)

	return engine
}
