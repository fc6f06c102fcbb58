package middleware

import (
	"net/http"
	"strings"

	"grow-service/pkg/jwtutil"
	"grow-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and extracts the acting member.
// The dashboard's auth service issues the tokens; this service only
// consumes the member identity for diary authorship and harvest
// responsibility.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store member info in context for later use
		c.Set("member_id", claims.MemberID)
		c.Set("email", claims.Email)
		c.Set("member_role", claims.Role)

		return next(c)
	}
}

// GetMemberIDFromContext retrieves the acting member ID from the context.
// Returns 0, false if no member identity is present.
func GetMemberIDFromContext(c echo.Context) (uint, bool) {
	memberID, ok := c.Get("member_id").(uint)
	return memberID, ok
}
