package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const callerKey = "callerID"

// TokenVerifier turns a bearer token into the caller's user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Authenticate resolves the caller identity of each request. Requests without
// an Authorization header pass through anonymously; a malformed header or a
// token the verifier rejects is answered with 401.
func Authenticate(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			userID, err := verifier.Verify(c.Request().Context(), parts[1])
			if err != nil || userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(callerKey, userID)
			return next(c)
		}
	}
}

// CallerID returns the verified user id of the request, or "" when anonymous.
func CallerID(c echo.Context) string {
	id, _ := c.Get(callerKey).(string)
	return id
}
