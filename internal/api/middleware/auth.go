package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/warbler/warbler/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUserID      = "user_id"
	ContextUsername    = "username"
	ContextTokenID     = "token_id"
	ContextTokenExpiry = "token_expires_at"
)

// Auth validates the JWT, rejects revoked tokens and injects the caller's
// identity into context. denylist may be nil, in which case revocation is
// not checked.
func Auth(jwtSecret string, denylist ports.TokenDenylist) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			userID, err := strconv.ParseInt(sub, 10, 64)
			if err != nil || userID <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			username, _ := claims["username"].(string)
			tokenID, _ := claims["jti"].(string)
			exp, _ := claims.GetExpirationTime()

			if denylist != nil && tokenID != "" {
				revoked, err := denylist.IsRevoked(c.Request().Context(), tokenID)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "token check unavailable").SetInternal(err)
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextUsername, username)
			c.Set(ContextTokenID, tokenID)
			if exp != nil {
				c.Set(ContextTokenExpiry, exp.Time)
			} else {
				c.Set(ContextTokenExpiry, time.Time{})
			}

			return next(c)
		}
	}
}
