package api

import (
	"net/http"

	"fieldops-backend/internal/api/middleware"
	"fieldops-backend/internal/metrics"
	"fieldops-backend/internal/modules/routing"
	"fieldops-backend/internal/modules/scheduling"
	"fieldops-backend/internal/modules/technicians"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	schedulingHandler *scheduling.Handler,
	routingHandler *routing.Handler,
	technicianHandler *technicians.Handler,
	jwtSecret string,
) {
	// Initialize the JWT authentication middleware
	authMiddleware := middleware.JWTAuth(jwtSecret)

	// --- Public Routes ---
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// --- Schedule Routes ---
	scheduleGroup := e.Group("/schedule", authMiddleware)
	{
		scheduleGroup.GET("/slots", schedulingHandler.GetAvailableTimeSlots)
		scheduleGroup.GET("/technicians/:technicianId/availability", schedulingHandler.CheckAvailability)
		scheduleGroup.PUT("/jobs/:jobId/reschedule", schedulingHandler.RescheduleJob)
	}

	// --- Route Optimization Routes ---
	routeGroup := e.Group("/routes", authMiddleware)
	{
		routeGroup.POST("/optimize", routingHandler.OptimizeRoutes)
		routeGroup.GET("/analytics", routingHandler.GetRouteAnalytics)
	}

	// --- Technician Routes ---
	technicianGroup := e.Group("/technicians", authMiddleware)
	{
		technicianGroup.GET("", technicianHandler.ListActive)
		technicianGroup.PUT("/:technicianId/status", technicianHandler.UpdateStatus)
	}
}
