package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership/internal/api/middleware"
	"github.com/cse-motors/dealership/internal/core/domain"
)

// actor returns the identity the Session middleware attached to the request.
func actor(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}

// parseID accepts only positive base-10 ids that fit a SERIAL column.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 || id > math.MaxInt32 {
		return 0, false
	}
	return id, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
