package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"silentlibrary/internal/auth"
	"silentlibrary/internal/flash"
	"silentlibrary/internal/form"
	"silentlibrary/internal/service"
)

// AuthHandler serves registration, login, and logout pages.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterPage renders the empty registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return render(c, http.StatusOK, "register.html", echo.Map{
		"Form":   &form.RegisterForm{},
		"Errors": map[string]string{},
	})
}

// Register processes the registration form. On success it redirects to the
// completion page; on validation failure it re-renders the form with
// per-field messages.
func (h *AuthHandler) Register(c echo.Context) error {
	var f form.RegisterForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	if err := c.Validate(&f); err != nil {
		return render(c, http.StatusOK, "register.html", echo.Map{
			"Form":   &f,
			"Errors": form.Errors(err),
		})
	}

	_, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:    f.Username,
		Email:       f.Email,
		Password:    f.Password,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		DateOfBirth: f.BirthDate(),
	})
	if err != nil {
		fieldErrors := map[string]string{}
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			fieldErrors["Username"] = "This username is already taken."
		case errors.Is(err, service.ErrEmailTaken):
			fieldErrors["Email"] = "This email is already registered."
		default:
			return render(c, http.StatusOK, "register.html", echo.Map{
				"Form":    &f,
				"Errors":  fieldErrors,
				"Flashes": []flash.Message{{Level: "error", Text: "Registration failed. Please try again."}},
			})
		}
		return render(c, http.StatusOK, "register.html", echo.Map{
			"Form":   &f,
			"Errors": fieldErrors,
		})
	}

	flash.Success(c, "Registration successful. Please check your email for confirmation.")
	return c.Redirect(http.StatusSeeOther, "/register/complete")
}

// RegistrationComplete renders the post-registration page.
func (h *AuthHandler) RegistrationComplete(c echo.Context) error {
	return render(c, http.StatusOK, "registration_complete.html", nil)
}

// LoginPage renders the empty login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, "login.html", echo.Map{
		"Form":   &form.LoginForm{},
		"Errors": map[string]string{},
	})
}

// Login processes the login form, sets the session cookies, and redirects
// staff to the admin dashboard and members to theirs.
func (h *AuthHandler) Login(c echo.Context) error {
	var f form.LoginForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}

	if err := c.Validate(&f); err != nil {
		return render(c, http.StatusOK, "login.html", echo.Map{
			"Form":   &f,
			"Errors": form.Errors(err),
		})
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Request().Context(), f.Username, f.Password)
	if err != nil {
		msg := "Invalid username or password."
		if errors.Is(err, service.ErrAccountInactive) {
			msg = "This account has been deactivated."
		}
		return render(c, http.StatusOK, "login.html", echo.Map{
			"Form":    &f,
			"Errors":  map[string]string{},
			"Flashes": []flash.Message{{Level: "error", Text: msg}},
		})
	}

	setSessionCookies(c, accessToken, refreshToken)

	if user.IsStaff {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout revokes the refresh token, clears session cookies, and redirects home.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.RefreshCookieName); err == nil && cookie.Value != "" {
		_ = h.authService.Logout(c.Request().Context(), cookie.Value)
	}
	clearSessionCookies(c)
	flash.Info(c, "You have been successfully logged out.")
	return c.Redirect(http.StatusSeeOther, "/")
}

func setSessionCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(auth.RefreshTokenExpiry),
	})
	c.SetCookie(&http.Cookie{
		Name:     auth.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(auth.RefreshTokenExpiry),
	})
}

func clearSessionCookies(c echo.Context) {
	for _, name := range []string{auth.SessionCookieName, auth.RefreshCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
}
