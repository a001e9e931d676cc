package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/api/metrics"
	"github.com/cse-motors/dealership/internal/api/middleware"
	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
	"github.com/cse-motors/dealership/internal/web"
)

const (
	msgBadCredentials = "Please check your credentials and try again."
	msgEmailExists    = "Email exists. Please log in or use a different email."
	msgInvalidAccount = "Invalid account id."
)

// TokenCookie describes the cookie that carries the session token.
type TokenCookie struct {
	Name   string
	TTL    time.Duration
	Policy middleware.CookiePolicy
}

type AccountHandler struct {
	accounts ports.AccountService
	pages    *Pages
	cookie   TokenCookie
	log      zerolog.Logger
}

func NewAccountHandler(accounts ports.AccountService, pages *Pages, cookie TokenCookie, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, pages: pages, cookie: cookie, log: log}
}

// LoginPage handles GET /account/login.
func (h *AccountHandler) LoginPage(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "account/login", web.Page{Title: "Login"})
}

// Login handles POST /account/login. Unknown email and wrong password get
// the same response and no cookie.
func (h *AccountHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.normalize()

	if err := c.Validate(&form); err != nil {
		return h.pages.RenderInvalid(c, err, "account/login", web.Page{Title: "Login", Form: form.sticky()})
	}

	res, err := h.accounts.Authenticate(c.Request().Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return h.pages.Render(c, http.StatusUnauthorized, "account/login", web.Page{
			Title:  "Login",
			Errors: []string{msgBadCredentials},
			Form:   form.sticky(),
		})
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.cookie.Policy.Set(c, h.cookie.Name, res.Token.Value, h.cookie.TTL)
	h.log.Info().Int64("account_id", res.Account.ID).Msg("login")
	return c.Redirect(http.StatusFound, middleware.AccountPath)
}

// Logout handles GET /account/logout. Tokens are not revocable; clearing the
// cookie is the whole logout.
func (h *AccountHandler) Logout(c echo.Context) error {
	h.cookie.Policy.Clear(c, h.cookie.Name)
	return c.Redirect(http.StatusFound, "/")
}

// RegisterPage handles GET /account/register.
func (h *AccountHandler) RegisterPage(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "account/register", web.Page{Title: "Register"})
}

// Register handles POST /account/register. Success renders the login page
// directly with 201.
func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.normalize()

	if err := c.Validate(&form); err != nil {
		return h.pages.RenderInvalid(c, err, "account/register", web.Page{Title: "Register", Form: form.sticky()})
	}

	account, err := h.accounts.Register(c.Request().Context(), domain.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		return h.pages.Render(c, http.StatusConflict, "account/register", web.Page{
			Title:  "Register",
			Errors: []string{msgEmailExists},
			Form:   form.sticky(),
		})
	case err != nil:
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return h.pages.RenderInvalid(c, err, "account/register", web.Page{Title: "Register", Form: form.sticky()})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return h.pages.Render(c, http.StatusCreated, "account/login", web.Page{
		Title:   "Login",
		Notices: []string{"Congratulations, you're registered " + account.FirstName + ". Please log in."},
		Form:    map[string]string{"account_email": account.Email},
	})
}

// Management handles GET /account/.
func (h *AccountHandler) Management(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "account/management", web.Page{Title: "Account Management"})
}

// UpdatePage handles GET /account/update/:account_id.
func (h *AccountHandler) UpdatePage(c echo.Context) error {
	id, ok := parseID(c.Param("account_id"))
	if !ok {
		return h.pages.Redirect(c, middleware.AccountPath, msgInvalidAccount)
	}

	account, err := h.accounts.GetAccount(c.Request().Context(), actor(c), id)
	if err != nil {
		return h.accountError(c, err)
	}
	return h.pages.Render(c, http.StatusOK, "account/update", web.Page{
		Title: "Update Account",
		Form:  accountFormValues(account),
	})
}

// UpdateProfile handles POST /account/update. When the owner edits their own
// account the session cookie is replaced with a token carrying the new claims.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.normalize()

	id, ok := parseID(form.AccountID)
	if !ok {
		return h.pages.Redirect(c, middleware.AccountPath, msgInvalidAccount)
	}
	if err := c.Validate(&form); err != nil {
		return h.pages.RenderInvalid(c, err, "account/update", web.Page{Title: "Update Account", Form: form.sticky()})
	}

	res, err := h.accounts.UpdateProfile(c.Request().Context(), actor(c), domain.ProfileInput{
		AccountID: id,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return h.pages.Render(c, http.StatusConflict, "account/update", web.Page{
			Title:  "Update Account",
			Errors: []string{msgEmailExists},
			Form:   form.sticky(),
		})
	case err != nil:
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return h.pages.RenderInvalid(c, err, "account/update", web.Page{Title: "Update Account", Form: form.sticky()})
		}
		return h.accountError(c, err)
	}

	if res.Token != nil {
		h.cookie.Policy.Set(c, h.cookie.Name, res.Token.Value, h.cookie.TTL)
	}
	return h.pages.Redirect(c, middleware.AccountPath, "Your account information has been updated.")
}

// UpdatePassword handles POST /account/update-password. The token is left
// alone since none of its claims change.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var form passwordForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	id, ok := parseID(form.AccountID)
	if !ok {
		return h.pages.Redirect(c, middleware.AccountPath, msgInvalidAccount)
	}
	ctx := c.Request().Context()

	if verr := c.Validate(&form); verr != nil {
		account, err := h.accounts.GetAccount(ctx, actor(c), id)
		if err != nil {
			return h.accountError(c, err)
		}
		return h.pages.RenderInvalid(c, verr, "account/update", web.Page{Title: "Update Account", Form: accountFormValues(account)})
	}

	if err := h.accounts.UpdatePassword(ctx, actor(c), id, form.Password); err != nil {
		return h.accountError(c, err)
	}
	return h.pages.Redirect(c, middleware.AccountPath, "Your password has been updated.")
}

func (h *AccountHandler) accountError(c echo.Context, err error) error {
	switch {
	case isDenied(err):
		return h.pages.deny(c, err)
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Account not found.")
	default:
		return err
	}
}
