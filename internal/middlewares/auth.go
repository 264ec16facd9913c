package middlewares

import (
	"crypto/subtle"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
)

const (
	APIKeyHeader = "x-ig-auth-key"
)

// RequireAPIKey guards a route group behind one or more accepted API keys.
// The campaign surface lists both the campaign and the admin key so an
// operator token works everywhere; admin-only groups list just the admin
// key. A group configured with no non-empty key is a server-side
// misconfiguration and answers 500 rather than letting anything through.
func RequireAPIKey(keys ...string) echo.MiddlewareFunc {
	accepted := make([][]byte, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			accepted = append(accepted, []byte(key))
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(accepted) == 0 {
				return response.InternalServerError(
					c,
					errors.New("no API key is configured for this endpoint group"),
				)
			}

			token := []byte(c.Request().Header.Get(APIKeyHeader))
			if len(token) == 0 {
				return response.Unauthorized(c)
			}

			for _, key := range accepted {
				if subtle.ConstantTimeCompare(token, key) == 1 {
					return next(c)
				}
			}

			return response.Unauthorized(c)
		}
	}
}
