package routing

import (
	"net/http"
	"time"

	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for route optimization and analytics.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new routing handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// OptimizeRoutes handles POST /routes/optimize.
func (h *Handler) OptimizeRoutes(c echo.Context) error {
	userID, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	var req models.OptimizeRoutesRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	routes, err := h.svc.OptimizeRoutes(c.Request().Context(), companyID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	resp := models.OptimizeRoutesResponse{Routes: routes}
	if req.Save {
		resp.SaveStatuses = h.svc.SaveOptimizedRoutes(c.Request().Context(), routes, companyID, userID)
	}

	return utils.RespondWithJSON(c, http.StatusOK, resp)
}

// GetRouteAnalytics handles GET /routes/analytics.
func (h *Handler) GetRouteAnalytics(c echo.Context) error {
	_, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", c.QueryParam("start"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date")
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("end"))
	if err != nil || end.Before(start) {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date")
	}

	stats, err := h.svc.GetRouteAnalytics(c.Request().Context(), companyID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, stats)
}
