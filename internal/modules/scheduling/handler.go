package scheduling

import (
	"net/http"
	"time"

	"fieldops-backend/internal/models"
	"fieldops-backend/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for availability and rescheduling.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new scheduling handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// GetAvailableTimeSlots handles GET /schedule/slots.
func (h *Handler) GetAvailableTimeSlots(c echo.Context) error {
	_, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	var q models.AvailabilityQuery
	if err := c.Bind(&q); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
	}
	if err := utils.GetValidator().Validate(q); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid date")
	}

	slots, err := h.svc.GetAvailableTimeSlots(c.Request().Context(), companyID, date, q.DurationMinutes, q.TechnicianID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, slots)
}

// CheckAvailability handles GET /schedule/technicians/:technicianId/availability.
func (h *Handler) CheckAvailability(c echo.Context) error {
	_, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	technicianID := c.Param("technicianId")
	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid start time")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil || !end.After(start) {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid end time")
	}

	available, err := h.svc.CheckTechnicianAvailability(c.Request().Context(), companyID, technicianID, start, end, c.QueryParam("exclude_job_id"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]bool{"available": available})
}

// RescheduleJob handles PUT /schedule/jobs/:jobId/reschedule.
func (h *Handler) RescheduleJob(c echo.Context) error {
	_, companyID, err := utils.ExtractAuthInfo(c)
	if err != nil {
		return err
	}

	var req models.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	job, err := h.svc.RescheduleJob(c.Request().Context(), companyID, c.Param("jobId"), req.ScheduledStart, req.ScheduledEnd)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, job)
}
