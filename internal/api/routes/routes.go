package routes

import (
	"shiftdesk/internal/api/handlers"
	"shiftdesk/internal/api/middleware"
	"shiftdesk/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {

	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	// Create handlers
	userHandler := handlers.NewUserHandler(app.UserService, app.Validator)
	shiftHandler := handlers.NewShiftHandler(app.ShiftService, app.Validator)
	applicationHandler := handlers.NewApplicationHandler(app.ApplicationService, app.Validator)
	jobHandler := handlers.NewJobHandler(app.JobService, app.Validator)

	// --- Middleware ---
	authMiddleware := middleware.JWTAuthMiddleware(app.Config.JWT.Secret)

	// --- Register Resource Routes ---
	RegisterUserRoutes(apiV1, userHandler, authMiddleware)
	RegisterShiftRoutes(apiV1, shiftHandler, authMiddleware)
	RegisterApplicationRoutes(apiV1, applicationHandler, authMiddleware)
	RegisterJobRoutes(apiV1, jobHandler, authMiddleware)

	// --- Health Check ---
	router.GET("/health", handlers.HealthCheck)

	// --- Metrics ---
	if app.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))
	}
}
