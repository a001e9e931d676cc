package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership/internal/api/metrics"
	"github.com/cse-motors/dealership/internal/core/domain"
)

const (
	LoginPath   = "/account/login"
	AccountPath = "/account/"

	NoticeLoginRequired = "Please log in to continue."
	NoticeNotAuthorized = "You are not authorized to access that page."
)

// RequireAuthenticated redirects anonymous visitors to the login page.
func RequireAuthenticated(notices Notifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityFrom(c).Authenticated() {
				return DenyAnonymous(c, notices)
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. Anonymous visitors go to
// the login page; authenticated accounts outside allowedRoles go to their
// account page.
func RequireRole(notices Notifier, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if !id.Authenticated() {
				return DenyAnonymous(c, notices)
			}
			if !allowed.Contains(id.Role) {
				return DenyForbidden(c, notices)
			}
			return next(c)
		}
	}
}

func DenyAnonymous(c echo.Context, notices Notifier) error {
	metrics.GuardRejectionsTotal.WithLabelValues("anonymous").Inc()
	notices.AddNotice(c, NoticeLoginRequired)
	return c.Redirect(http.StatusFound, LoginPath)
}

func DenyForbidden(c echo.Context, notices Notifier) error {
	metrics.GuardRejectionsTotal.WithLabelValues("forbidden").Inc()
	notices.AddNotice(c, NoticeNotAuthorized)
	return c.Redirect(http.StatusFound, AccountPath)
}

// NoCache stops browsers and proxies from storing pages that depend on the
// session.
func NoCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			return next(c)
		}
	}
}
