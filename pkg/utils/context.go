package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ExtractAuthInfo pulls the authenticated user and company IDs that the JWT
// middleware placed on the request context. Missing values mean the route
// was registered without the auth middleware, which is a wiring bug.
func ExtractAuthInfo(c echo.Context) (userID, companyID string, err error) {
	userID, _ = c.Get("userID").(string)
	companyID, _ = c.Get("companyID").(string)
	if userID == "" || companyID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return userID, companyID, nil
}
