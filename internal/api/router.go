package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cse-motors/dealership/docs"
	"github.com/cse-motors/dealership/internal/api/handler"
	"github.com/cse-motors/dealership/internal/api/middleware"
	"github.com/cse-motors/dealership/internal/core/domain"
	"github.com/cse-motors/dealership/internal/core/ports"
	"github.com/cse-motors/dealership/internal/web"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Accounts   ports.AccountService
	Inventory  ports.InventoryService
	Identities ports.IdentityResolver
	Sessions   ports.SessionStore
	Health     []handler.Dependency
	Log        zerolog.Logger
}

// Options are the cookie settings taken from configuration.
type Options struct {
	Production    bool
	TokenCookie   string
	TokenTTL      time.Duration
	SessionCookie string
	SessionTTL    time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps, opts Options) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()

	cookies := middleware.NewCookiePolicy(opts.Production)
	flash := middleware.NewFlash(d.Sessions, opts.SessionCookie, opts.SessionTTL, cookies, d.Log.With().Str("component", "flash").Logger())
	pages := handler.NewPages(d.Inventory, flash)
	e.HTTPErrorHandler = NewHTTPErrorHandler(pages, d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("dealership"))
	e.Use(flash.Middleware())
	e.Use(middleware.Session(opts.TokenCookie, d.Identities, d.Log))

	// --- Ops ---
	health := handler.NewHealthHandler(d.Health...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Static assets (/css, /js, /images) ---
	e.StaticFS("/", web.Static())

	accounts := handler.NewAccountHandler(d.Accounts, pages, handler.TokenCookie{
		Name:   opts.TokenCookie,
		TTL:    opts.TokenTTL,
		Policy: cookies,
	}, d.Log)
	inventory := handler.NewInventoryHandler(d.Inventory, pages, d.Log)

	signedIn := []echo.MiddlewareFunc{middleware.NoCache(), middleware.RequireAuthenticated(flash)}
	staff := []echo.MiddlewareFunc{middleware.NoCache(), middleware.RequireRole(flash, domain.RoleEmployee, domain.RoleAdmin)}

	e.GET("/", pages.Home)

	// --- Account routes ---
	acct := e.Group("/account")
	acct.GET("/login", accounts.LoginPage)
	acct.POST("/login", accounts.Login)
	acct.GET("/register", accounts.RegisterPage)
	acct.POST("/register", accounts.Register)
	acct.GET("/logout", accounts.Logout)
	acct.GET("", accounts.Management, signedIn...)
	acct.GET("/", accounts.Management, signedIn...)
	acct.GET("/update/:account_id", accounts.UpdatePage, signedIn...)
	acct.POST("/update", accounts.UpdateProfile, signedIn...)
	acct.POST("/update-password", accounts.UpdatePassword, signedIn...)

	// --- Inventory routes ---
	inv := e.Group("/inv")
	inv.GET("/type/:classificationId", inventory.ByClassification)
	inv.GET("/detail/:inv_id", inventory.Detail)
	inv.GET("/getInventory/:classification_id", inventory.GetInventory)

	inv.GET("", inventory.Management, staff...)
	inv.GET("/", inventory.Management, staff...)
	inv.GET("/management", inventory.Management, staff...)
	inv.GET("/add-classification", inventory.AddClassificationPage, staff...)
	inv.POST("/add-classification", inventory.AddClassification, staff...)
	inv.GET("/add-inventory", inventory.AddVehiclePage, staff...)
	inv.POST("/add-inventory", inventory.AddVehicle, staff...)
	inv.GET("/edit/:inv_id", inventory.EditPage, staff...)
	inv.POST("/update", inventory.Update, staff...)
	inv.GET("/delete/:inv_id", inventory.DeletePage, staff...)
	inv.POST("/delete", inventory.Delete, staff...)

	return e, nil
}
