package technicians

import (
	"net/http"

	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler exposes the technician roster over HTTP.
type Handler struct {
	repo RepositoryInterface
}

// NewHandler creates a new technicians handler.
func NewHandler(repo RepositoryInterface) *Handler {
	return &Handler{repo: repo}
}

// ListActive handles GET /technicians.
func (h *Handler) ListActive(c echo.Context) error {
	_, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	techs, err := h.repo.ListActive(c.Request().Context(), companyID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, techs)
}

// UpdateStatus handles PUT /technicians/:technicianId/status.
func (h *Handler) UpdateStatus(c echo.Context) error {
	_, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	var req models.TechnicianStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.repo.UpdateStatus(c.Request().Context(), companyID, c.Param("technicianId"), req.Status); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
