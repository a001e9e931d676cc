package middleware

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/core/ports"
)

const sessionIDKey = "session_id"

// Notifier queues one-shot messages for the visitor's next rendered page.
type Notifier interface {
	AddNotice(c echo.Context, msg string)
	PopNotices(c echo.Context) []string
}

// Flash keeps flash notices in a server-side session identified by a
// random cookie. Store failures are logged and never fail the request.
type Flash struct {
	store  ports.SessionStore
	cookie string
	ttl    time.Duration
	policy CookiePolicy
	log    zerolog.Logger
	now    func() time.Time
}

func NewFlash(store ports.SessionStore, cookieName string, ttl time.Duration, policy CookiePolicy, log zerolog.Logger) *Flash {
	return &Flash{
		store:  store,
		cookie: cookieName,
		ttl:    ttl,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// flashless are path prefixes that never render a page, so they get no
// session cookie.
var flashless = []string{"/health", "/metrics", "/swagger/", "/css/", "/js/", "/images/", "/favicon"}

func skipFlash(path string) bool {
	for _, p := range flashless {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware assigns a session id to every page visitor. Ids that are not
// well-formed UUIDs are replaced.
func (f *Flash) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipFlash(c.Request().URL.Path) {
				return next(c)
			}
			if ck, err := c.Cookie(f.cookie); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					c.Set(sessionIDKey, ck.Value)
					return next(c)
				}
			}

			id := uuid.NewString()
			c.Set(sessionIDKey, id)
			f.policy.Set(c, f.cookie, id, f.ttl)
			return next(c)
		}
	}
}

func (f *Flash) AddNotice(c echo.Context, msg string) {
	id, _ := c.Get(sessionIDKey).(string)
	if id == "" {
		f.log.Warn().Str("notice", msg).Msg("no session for flash notice")
		return
	}
	if err := f.store.AppendNotice(c.Request().Context(), id, msg, f.now().Add(f.ttl)); err != nil {
		f.log.Error().Err(err).Msg("flash: append notice")
	}
}

// PopNotices returns the queued notices and clears them.
func (f *Flash) PopNotices(c echo.Context) []string {
	id, _ := c.Get(sessionIDKey).(string)
	if id == "" {
		return nil
	}
	notices, err := f.store.TakeNotices(c.Request().Context(), id)
	if err != nil {
		f.log.Error().Err(err).Msg("flash: take notices")
		return nil
	}
	return notices
}
