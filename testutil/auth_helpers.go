package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/garage-works/garage-orders-api/middleware"
	"github.com/gin-gonic/gin"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, role string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// StaffScopes are the scopes a regular staff token carries
var StaffScopes = []string{"read:orders", "write:orders"}

// MockAuth stands in for EnsureValidToken, authenticating every request
// as subject with the staff scopes
func MockAuth(subject, role string) gin.HandlerFunc {
	return MockAuthWithScopes(subject, role, StaffScopes...)
}

// MockAuthWithScopes is MockAuth with an explicit scope list
func MockAuthWithScopes(subject, role string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", subject)
		c.Set("validated_claims", MockValidatedClaims(subject, role, scopes))
		c.Next()
	}
}
