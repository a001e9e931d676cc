package web

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/cse-motors/dealership/internal/core/domain"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func render(t *testing.T, r *Renderer, name string, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(&buf, name, p, nil); err != nil {
		t.Fatalf("Render(%s): %v", name, err)
	}
	return buf.String()
}

var nav = []domain.Classification{{ID: 1, Name: "Custom"}, {ID: 2, Name: "SUV"}}

func TestRenderer_AllPagesParse(t *testing.T) {
	r := newRenderer(t)
	for _, name := range []string{
		"home",
		"account/login", "account/register", "account/management", "account/update",
		"inventory/classification", "inventory/detail", "inventory/management",
		"inventory/add-classification", "inventory/add-inventory", "inventory/edit",
		"inventory/delete-confirm", "errors/error",
	} {
		if !r.Has(name) {
			t.Errorf("missing page %q", name)
		}
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r := newRenderer(t)
	if err := r.Render(&bytes.Buffer{}, "nope", Page{}, nil); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}

func TestRenderer_NavMarksActive(t *testing.T) {
	r := newRenderer(t)
	out := render(t, r, "inventory/classification", Page{
		Title: "SUV vehicles",
		Path:  "/inv/type/2",
		Nav:   nav,
		Data:  struct{ Vehicles []domain.Vehicle }{},
	})

	if !strings.Contains(out, `<a href="/inv/type/2" title="See our inventory of SUV vehicles" class="active"`) {
		t.Fatalf("expected SUV link to be active:\n%s", out)
	}
	if strings.Contains(out, `<a href="/inv/type/1" title="See our inventory of Custom vehicles" class="active"`) {
		t.Fatalf("Custom link must not be active")
	}
	if !strings.Contains(out, "Sorry, no matching vehicles could be found.") {
		t.Fatalf("expected empty-grid notice")
	}
}

func TestRenderer_Detail(t *testing.T) {
	r := newRenderer(t)
	v := &domain.Vehicle{
		ID: 7, Make: "Jeep", Model: "Wrangler", Year: 2019, Price: 28045,
		Miles: 41205, Color: "Yellow", ClassificationName: "SUV",
		Description: "The Jeep Wrangler is small and compact with enough power.",
		Image:       "/images/vehicles/wrangler.jpg",
	}
	out := render(t, r, "inventory/detail", Page{Title: v.Title(), Nav: nav, Data: v})

	for _, want := range []string{"2019 Jeep Wrangler", "$28,045.00", "41,205 miles", "Yellow", "SUV"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail page missing %q", want)
		}
	}
}

func TestRenderer_EscapesAndKeepsForm(t *testing.T) {
	r := newRenderer(t)
	out := render(t, r, "account/register", Page{
		Title:  "Register",
		Errors: []string{"Email exists. Please log in or use a different email."},
		Form: map[string]string{
			"account_firstname": "<script>",
			"account_email":     "a@b.com",
		},
	})

	if strings.Contains(out, "<script>") {
		t.Fatalf("form values must be escaped")
	}
	if !strings.Contains(out, `value="a@b.com"`) {
		t.Fatalf("expected sticky email value")
	}
	if !strings.Contains(out, "Email exists.") {
		t.Fatalf("expected error message")
	}
}

func TestRenderer_HeaderReflectsIdentity(t *testing.T) {
	r := newRenderer(t)

	anon := render(t, r, "home", Page{Title: "Home", Path: "/"})
	if !strings.Contains(anon, "My Account") {
		t.Fatalf("anonymous header should offer login")
	}

	signedIn := render(t, r, "account/management", Page{
		Title:    "Account Management",
		Identity: domain.Identity{AccountID: 4, FirstName: "Happy", Role: domain.RoleEmployee},
	})
	if !strings.Contains(signedIn, "Welcome Happy") || !strings.Contains(signedIn, "/inv/management") {
		t.Fatalf("employee header should greet and link inventory tools")
	}
}

func TestRenderer_SelectKeepsClassification(t *testing.T) {
	r := newRenderer(t)
	out := render(t, r, "inventory/add-inventory", Page{
		Title: "Add Vehicle",
		Nav:   nav,
		Form:  map[string]string{"classification_id": "2"},
	})
	if !strings.Contains(out, `<option value="2" selected>SUV</option>`) {
		t.Fatalf("expected classification 2 selected:\n%s", out)
	}
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"css/styles.css", "js/inv-management.js", "js/inv-update.js", "images/vehicles/no-image.png"} {
		if _, err := fs.Stat(Static(), name); err != nil {
			t.Errorf("missing static asset %s: %v", name, err)
		}
	}
}
