package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/warbler/warbler/internal/core/domain"
)

// UserLookup resolves a username to the account that currently holds it.
type UserLookup interface {
	Lookup(ctx context.Context, username string) (*domain.User, error)
}

// SelfOnly lets a request through only when the user named by the path
// parameter param is the authenticated user. The comparison is by id, since
// the username claim goes stale once the account is renamed. Must run after
// Auth.
func SelfOnly(param string, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerID, _ := c.Get(ContextUserID).(int64)
			if callerID <= 0 {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			target, err := users.Lookup(c.Request().Context(), c.Param(param))
			if err != nil {
				return err
			}
			if target.ID != callerID {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
