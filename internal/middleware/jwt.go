package middleware // middleware contains reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxEmail    = "email"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the decoded claims into the request context. Missing,
// malformed, expired and badly signed tokens all get the same flat 401
// so callers learn nothing about why a token was rejected.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Only HS256-family tokens are ever issued.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return unauthorized(c)
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}
			// JWT numbers decode as float64; handlers expect uint64.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return unauthorized(c)
			}
			c.Set(CtxUserID, uint64(sub))
			if v, ok := claims["username"].(string); ok {
				c.Set(CtxUsername, v)
			}
			if v, ok := claims["email"].(string); ok {
				c.Set(CtxEmail, v)
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id stored by JWTAuth. The second
// return value is false on routes that skipped the middleware.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
}
