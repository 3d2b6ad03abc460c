package models

import "github.com/golang-jwt/jwt/v5"

// JwtCustomClaims are the claims issued by the CRM's auth service. The
// scheduling engine only consumes them; CompanyID is the tenancy boundary
// for every query and optimization run.
type JwtCustomClaims struct {
	UserID    string `json:"userID"`
	CompanyID string `json:"companyID"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
