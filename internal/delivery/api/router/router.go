// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"mycv/internal/delivery/api/middleware"
	"mycv/internal/delivery/api/router/handler"
	"mycv/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ReportHandler  *handler.ReportHandler
	AuthMiddleware *middleware.AuthMiddleware
	Registry       *prometheus.Registry
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	reportHandler  *handler.ReportHandler
	authMiddleware *middleware.AuthMiddleware
	registry       *prometheus.Registry
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		reportHandler:  params.ReportHandler,
		authMiddleware: params.AuthMiddleware,
		registry:       params.Registry,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(r.registry)))

	authGroup := e.Group("/auth")
	authGroup.Use(r.authMiddleware.CurrentUser)
	{
		authGroup.POST("/signup", r.userHandler.Signup)
		authGroup.POST("/signin", r.userHandler.Signin)
		authGroup.POST("/signout", r.userHandler.Signout)
		authGroup.GET("/whoami", r.userHandler.WhoAmI, r.authMiddleware.RequireAuth)

		authGroup.GET("", r.userHandler.FindUsers)
		authGroup.GET("/:id", r.userHandler.FindUser)
		authGroup.PATCH("/:id", r.userHandler.UpdateUser)
		authGroup.DELETE("/:id", r.userHandler.RemoveUser)
	}

	reportsGroup := e.Group("/reports")
	reportsGroup.Use(r.authMiddleware.CurrentUser)
	{
		reportsGroup.GET("", r.reportHandler.GetEstimate)
		reportsGroup.POST("", r.reportHandler.CreateReport, r.authMiddleware.RequireAuth)
		reportsGroup.PATCH("/:id", r.reportHandler.ApproveReport, r.authMiddleware.RequireAdmin)
	}
}
