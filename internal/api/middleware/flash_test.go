package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newFlash(store *memoryStore) *Flash {
	return NewFlash(store, "sessionId", time.Hour, NewCookiePolicy(false), zerolog.Nop())
}

func TestFlash_AssignsSessionCookie(t *testing.T) {
	flash := newFlash(newMemoryStore())
	c, rec := newContext(http.MethodGet, "/")

	called := false
	if err := flash.Middleware()(okHandler(&called))(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sessionId" {
		t.Fatalf("expected sessionId cookie, got %v", cookies)
	}
	if _, err := uuid.Parse(cookies[0].Value); err != nil {
		t.Fatalf("session id is not a uuid: %q", cookies[0].Value)
	}
	if !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Fatalf("unexpected cookie attributes: %+v", cookies[0])
	}
}

func TestFlash_KeepsValidSession(t *testing.T) {
	flash := newFlash(newMemoryStore())
	id := uuid.NewString()

	c, rec := newContext(http.MethodGet, "/")
	c.Request().AddCookie(&http.Cookie{Name: "sessionId", Value: id})

	called := false
	_ = flash.Middleware()(okHandler(&called))(c)

	if got, _ := c.Get(sessionIDKey).(string); got != id {
		t.Fatalf("expected session id %s, got %s", id, got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("existing session should not be re-issued")
	}
}

func TestFlash_ReplacesMalformedSession(t *testing.T) {
	flash := newFlash(newMemoryStore())
	c, _ := newContext(http.MethodGet, "/")
	c.Request().AddCookie(&http.Cookie{Name: "sessionId", Value: "../../etc/passwd"})

	called := false
	_ = flash.Middleware()(okHandler(&called))(c)

	got, _ := c.Get(sessionIDKey).(string)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a fresh uuid, got %q", got)
	}
}

func TestFlash_AddAndPop(t *testing.T) {
	store := newMemoryStore()
	flash := newFlash(store)

	c, _ := newContext(http.MethodGet, "/")
	c.Set(sessionIDKey, "s1")

	flash.AddNotice(c, "Classification added successfully.")
	flash.AddNotice(c, "Second.")

	if exp := store.expires["s1"]; exp.Before(time.Now()) {
		t.Fatalf("session record should expire in the future")
	}

	got := flash.PopNotices(c)
	if len(got) != 2 || got[0] != "Classification added successfully." {
		t.Fatalf("unexpected notices: %v", got)
	}
	if again := flash.PopNotices(c); len(again) != 0 {
		t.Fatalf("notices must be shown once, got %v", again)
	}
}

func TestFlash_StoreErrorIsSwallowed(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	flash := newFlash(store)

	c, _ := newContext(http.MethodGet, "/")
	c.Set(sessionIDKey, "s1")

	flash.AddNotice(c, "lost")
	if got := flash.PopNotices(c); got != nil {
		t.Fatalf("expected no notices on store failure, got %v", got)
	}
}

func TestFlash_ConcurrentNoticesAreKept(t *testing.T) {
	store := newMemoryStore()
	flash := newFlash(store)

	const requests = 20
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _ := newContext(http.MethodPost, "/inv/add-inventory")
			c.Set(sessionIDKey, "shared")
			flash.AddNotice(c, fmt.Sprintf("notice %d", i))
		}(i)
	}
	wg.Wait()

	c, _ := newContext(http.MethodGet, "/inv/management")
	c.Set(sessionIDKey, "shared")
	if got := flash.PopNotices(c); len(got) != requests {
		t.Fatalf("expected %d notices, got %d", requests, len(got))
	}
}

func TestFlash_SkipsNonPagePaths(t *testing.T) {
	flash := newFlash(newMemoryStore())

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/css/styles.css", "/js/inv-management.js", "/images/vehicles/no-image.png", "/swagger/index.html"} {
		c, rec := newContext(http.MethodGet, path)
		called := false
		if err := flash.Middleware()(okHandler(&called))(c); err != nil || !called {
			t.Fatalf("%s: handler not reached: %v", path, err)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("%s: expected no session cookie", path)
		}
		if id, _ := c.Get(sessionIDKey).(string); id != "" {
			t.Fatalf("%s: expected no session id, got %q", path, id)
		}
	}

	c, rec := newContext(http.MethodGet, "/inv/type/1")
	called := false
	_ = flash.Middleware()(okHandler(&called))(c)
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("page requests still get a session cookie")
	}
}
