package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/api/middleware"
	"github.com/cse-motors/dealership/internal/core/auth"
	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/web"
)

var (
	clientID   = domain.Identity{AccountID: 1, FirstName: "Cee", Email: "client@example.com", Role: domain.RoleClient}
	employeeID = domain.Identity{AccountID: 2, FirstName: "Emma", Email: "employee@example.com", Role: domain.RoleEmployee}
)

// --- stubs ---

type recordingNotifier struct {
	notices []string
}

func (r *recordingNotifier) AddNotice(_ echo.Context, msg string) { r.notices = append(r.notices, msg) }

func (r *recordingNotifier) PopNotices(echo.Context) []string {
	out := r.notices
	r.notices = nil
	return out
}

type stubAccountService struct {
	registerFn       func(ctx context.Context, in domain.RegisterInput) (*domain.Account, error)
	authenticateFn   func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	getFn            func(ctx context.Context, actor domain.Identity, id int64) (*domain.Account, error)
	updateProfileFn  func(ctx context.Context, actor domain.Identity, in domain.ProfileInput) (*domain.ProfileResult, error)
	updatePasswordFn func(ctx context.Context, actor domain.Identity, id int64, password string) error
}

func (s *stubAccountService) Register(ctx context.Context, in domain.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Authenticate(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAccountService) GetAccount(ctx context.Context, actor domain.Identity, id int64) (*domain.Account, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, actor domain.Identity, in domain.ProfileInput) (*domain.ProfileResult, error) {
	return s.updateProfileFn(ctx, actor, in)
}

func (s *stubAccountService) UpdatePassword(ctx context.Context, actor domain.Identity, id int64, password string) error {
	return s.updatePasswordFn(ctx, actor, id, password)
}

// stubInventoryService serves a fixed catalogue and counts mutations.
type stubInventoryService struct {
	classifications []domain.Classification
	vehicles        map[int64]*domain.Vehicle
	mutations       int
	failWith        error
	lastInput       domain.VehicleInput
}

func newStubInventory() *stubInventoryService {
	return &stubInventoryService{
		classifications: []domain.Classification{{ID: 1, Name: "Custom"}, {ID: 5, Name: "SUV"}},
		vehicles: map[int64]*domain.Vehicle{
			7: {ID: 7, Make: "Jeep", Model: "Wrangler", Year: 2019, Price: 28045, Miles: 41205,
				Color: "Yellow", ClassificationID: 5, ClassificationName: "SUV",
				Description: "Small, compact and capable.", Image: domain.DefaultVehicleImage,
				Thumbnail: domain.DefaultVehicleThumbnail},
		},
	}
}

func (s *stubInventoryService) ListClassifications(context.Context) ([]domain.Classification, error) {
	return s.classifications, nil
}

func (s *stubInventoryService) GetClassification(_ context.Context, id int64) (*domain.Classification, error) {
	for _, c := range s.classifications {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrClassificationNotFound
}

func (s *stubInventoryService) ListByClassification(_ context.Context, id int64) ([]domain.Vehicle, error) {
	out := []domain.Vehicle{}
	for _, v := range s.vehicles {
		if v.ClassificationID == id {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubInventoryService) GetVehicle(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	return v, nil
}

func (s *stubInventoryService) CreateClassification(_ context.Context, _ domain.Identity, name string) (*domain.Classification, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.mutations++
	return &domain.Classification{ID: 9, Name: name}, nil
}

func (s *stubInventoryService) CreateVehicle(_ context.Context, _ domain.Identity, in domain.VehicleInput) (*domain.Vehicle, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.mutations++
	s.lastInput = in
	return in.Normalize().Vehicle(10), nil
}

func (s *stubInventoryService) UpdateVehicle(_ context.Context, _ domain.Identity, id int64, in domain.VehicleInput) (*domain.Vehicle, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	if _, ok := s.vehicles[id]; !ok {
		return nil, domain.ErrVehicleNotFound
	}
	s.mutations++
	s.lastInput = in
	return in.Normalize().Vehicle(id), nil
}

func (s *stubInventoryService) DeleteVehicle(_ context.Context, _ domain.Identity, id int64) (*domain.Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	s.mutations++
	delete(s.vehicles, id)
	return v, nil
}

// --- harness ---

type harness struct {
	e         *echo.Echo
	tokens    *auth.TokenService
	notices   *recordingNotifier
	inventory *stubInventoryService
	pages     *Pages
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	tokens, err := auth.NewTokenService("handler-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	h := &harness{
		e:         echo.New(),
		tokens:    tokens,
		notices:   &recordingNotifier{},
		inventory: newStubInventory(),
	}
	h.pages = NewPages(h.inventory, h.notices)
	h.e.Renderer = renderer
	h.e.Validator = NewValidator()
	h.e.Use(middleware.Session("jwt", tokens, zerolog.Nop()))
	return h
}

func (h *harness) cookie() TokenCookie {
	return TokenCookie{Name: "jwt", TTL: time.Hour, Policy: middleware.NewCookiePolicy(false)}
}

// do sends a request, signed in as id when id is authenticated.
func (h *harness) do(t *testing.T, method, target string, form url.Values, id domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if id.Authenticated() {
		token, _, err := h.tokens.Issue(id)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	}

	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var noLog = zerolog.Nop()
