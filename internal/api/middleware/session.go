package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/api/metrics"
	"github.com/cse-motors/dealership/internal/core/auth"
	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
)

const identityKey = "identity"

// Session resolves the session token on every request and stores the
// resulting identity in the echo context. It never rejects a request: a
// missing, expired or tampered token leaves the visitor anonymous and the
// route guards decide what to do with them.
func Session(cookieName string, resolver ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(identityKey, domain.Anonymous)

			raw := tokenFromRequest(c, cookieName)
			if raw == "" {
				return next(c)
			}

			id, err := resolver.ResolveIdentity(raw)
			if err != nil {
				reason := auth.FailureReason(err)
				result := "invalid"
				if reason == "expired" {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Debug().
					Str("reason", reason).
					Str("path", c.Request().URL.Path).
					Msg("session token rejected")
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Session, or domain.Anonymous.
func IdentityFrom(c echo.Context) domain.Identity {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok {
		return domain.Anonymous
	}
	return id
}

// tokenFromRequest prefers the session cookie and falls back to a bearer
// Authorization header.
func tokenFromRequest(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
