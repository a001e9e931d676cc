package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/core/domain"
)

// errorResponse is the error envelope for JSON clients.
type errorResponse struct {
	Error string `json:"error"`
}

// ErrorPages renders the HTML error page.
type ErrorPages interface {
	RenderError(c echo.Context, status int, message string) error
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Shows visitors only "not found" or a generic server error.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Answers JSON clients with {"error": "<message>"}.
func NewHTTPErrorHandler(pages ErrorPages, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		if rerr := pages.RenderError(c, code, msg); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

const notFoundMessage = "Sorry, we couldn't find that page."

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Visitors only ever see "not found" or a crash page. Client-side echo
	// errors (bad bodies, wrong methods) collapse to 404 and are not logged.
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		if msg, ok := he.Message.(string); ok && he.Code == http.StatusNotFound && msg != http.StatusText(http.StatusNotFound) {
			return http.StatusNotFound, msg
		}
		return http.StatusNotFound, notFoundMessage
	}

	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, notFoundMessage
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Oh no! There was a crash. Maybe try a different route?"
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/inv/getInventory/") || strings.HasPrefix(req.URL.Path, "/health") {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
