package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	EmployeeID uuid.UUID
	Email      string
	Position   string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to the admin app.
type AccessTokenClaims struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	jwt.RegisteredClaims
}
