package handler

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"silentlibrary/internal/auth"
	"silentlibrary/internal/flash"
)

// perPage is the page size for paginated book listings.
const perPage = 20

// CurrentClaims returns the logged-in user's claims, or nil for anonymous
// requests. It understands both the echo-jwt token set on protected routes
// and the soft-session claims set on public ones.
func CurrentClaims(c echo.Context) *auth.Claims {
	if token, ok := c.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*auth.Claims); ok {
			return claims
		}
	}
	if claims, ok := c.Get("session_claims").(*auth.Claims); ok {
		return claims
	}
	return nil
}

// render executes a page template with the base context (current user, flash
// messages, CSRF token) merged in.
func render(c echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = CurrentClaims(c)
	}
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = flash.Pop(c)
	}
	data["CSRF"] = csrfToken(c)
	return c.Render(code, name, data)
}

func csrfToken(c echo.Context) string {
	if token, ok := c.Get("csrf").(string); ok {
		return token
	}
	return ""
}
