package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership/internal/api/middleware"
	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/web"
)

// NavSource lists the classifications shown in the site navigation.
type NavSource interface {
	ListClassifications(ctx context.Context) ([]domain.Classification, error)
}

// Pages fills in the parts of web.Page shared by every view: navigation,
// the current identity and pending flash notices.
type Pages struct {
	nav     NavSource
	notices middleware.Notifier
}

func NewPages(nav NavSource, notices middleware.Notifier) *Pages {
	return &Pages{nav: nav, notices: notices}
}

// Render renders a full page. A failure to load navigation fails the request.
func (p *Pages) Render(c echo.Context, status int, name string, page web.Page) error {
	nav, err := p.nav.ListClassifications(c.Request().Context())
	if err != nil {
		return err
	}
	page.Nav = nav
	return c.Render(status, name, p.decorate(c, page))
}

// RenderError renders the error page and tolerates a broken navigation
// source, since it is often the reason we are here.
func (p *Pages) RenderError(c echo.Context, status int, message string) error {
	page := web.Page{Title: http.StatusText(status), Data: message}
	if nav, err := p.nav.ListClassifications(c.Request().Context()); err == nil {
		page.Nav = nav
	}
	return c.Render(status, "errors/error", p.decorate(c, page))
}

func (p *Pages) decorate(c echo.Context, page web.Page) web.Page {
	page.Path = c.Request().URL.Path
	page.Identity = middleware.IdentityFrom(c)
	page.Notices = append(p.notices.PopNotices(c), page.Notices...)
	return page
}

// Redirect queues an optional notice and sends a 302.
func (p *Pages) Redirect(c echo.Context, path, notice string) error {
	if notice != "" {
		p.notices.AddNotice(c, notice)
	}
	return c.Redirect(http.StatusFound, path)
}

// deny answers ErrUnauthorized and ErrForbidden the same way the route guards do.
func (p *Pages) deny(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return middleware.DenyAnonymous(c, p.notices)
	}
	return middleware.DenyForbidden(c, p.notices)
}

func isDenied(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden)
}

// Home renders the landing page.
func (p *Pages) Home(c echo.Context) error {
	return p.Render(c, http.StatusOK, "home", web.Page{Title: "Home"})
}

// RenderInvalid re-renders a form with 400 when err is a validation error
// and passes anything else up to the error handler.
func (p *Pages) RenderInvalid(c echo.Context, err error, name string, page web.Page) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	page.Errors = append(page.Errors, ve.Messages()...)
	return p.Render(c, http.StatusBadRequest, name, page)
}
