package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookiePolicy holds the attributes shared by every cookie the site sets.
// Cookies are always HttpOnly and scoped to "/".
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// NewCookiePolicy returns Secure+Strict cookies in production and Lax,
// non-secure cookies otherwise so plain-HTTP development keeps working.
func NewCookiePolicy(production bool) CookiePolicy {
	if production {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteStrictMode}
	}
	return CookiePolicy{SameSite: http.SameSiteLaxMode}
}

func (p CookiePolicy) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

// Set writes a cookie that lives for ttl.
func (p CookiePolicy) Set(c echo.Context, name, value string, ttl time.Duration) {
	c.SetCookie(p.cookie(name, value, int(ttl/time.Second)))
}

// Clear expires the named cookie on the client.
func (p CookiePolicy) Clear(c echo.Context, name string) {
	ck := p.cookie(name, "", -1)
	ck.Expires = time.Unix(0, 0)
	c.SetCookie(ck)
}
