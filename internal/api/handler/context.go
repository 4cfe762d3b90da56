package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/warbler/warbler/internal/api/middleware"
)

// ctxUserID returns the authenticated user id set by the Auth middleware.
func ctxUserID(c echo.Context) (int64, error) {
	id, _ := c.Get(middleware.ContextUserID).(int64)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxToken returns the id and expiry of the token that authenticated the request.
func ctxToken(c echo.Context) (string, time.Time) {
	id, _ := c.Get(middleware.ContextTokenID).(string)
	exp, _ := c.Get(middleware.ContextTokenExpiry).(time.Time)
	return id, exp
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
