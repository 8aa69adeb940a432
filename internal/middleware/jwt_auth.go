package middleware

import (
	"net/http"
	"strings"

	"github.com/eventflow/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userIDKey is the context key the handlers read the authenticated id from
const userIDKey = "userID"

// JWTAuthMiddleware checks for a valid session token and stores the
// authenticated user id in the request context.
func JWTAuthMiddleware(identity *services.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			userID, err := identity.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id stored by JWTAuthMiddleware
func UserID(c echo.Context) primitive.ObjectID {
	return c.Get(userIDKey).(primitive.ObjectID)
}
