package utils

import (
	"errors"
	"net/http"

	"fieldops-backend/internal/models"

	"github.com/labstack/echo/v4"
)

// RespondWithJSON writes a JSON payload with the given status code.
func RespondWithJSON(c echo.Context, code int, payload interface{}) error {
	return c.JSON(code, payload)
}

// RespondWithError writes a JSON error body with the given status code.
func RespondWithError(c echo.Context, code int, message string) error {
	return c.JSON(code, models.ErrorResponse{Message: message})
}

// ConflictResponse is the error body returned when a booking or reschedule
// collides with existing active jobs; it carries the conflicting job IDs so
// the caller can surface or resolve them.
type ConflictResponse struct {
	Message        string   `json:"message"`
	ConflictingIDs []string `json:"conflicting_job_ids"`
}

// HandleServiceError maps service-layer errors onto HTTP responses.
// Unrecognized errors become a generic 500 so internals never leak.
func HandleServiceError(c echo.Context, err error) error {
	var conflict *models.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, ConflictResponse{
			Message:        "requested interval overlaps existing jobs",
			ConflictingIDs: conflict.JobIDs,
		})
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrRunInProgress):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNoTechnicians):
		return RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		c.Logger().Errorf("service error: %v", err)
		return RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
