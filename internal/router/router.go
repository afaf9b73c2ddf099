package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"silentlibrary/internal/auth"
	"silentlibrary/internal/config"
	apperrors "silentlibrary/internal/errors"
	"silentlibrary/internal/form"
	"silentlibrary/internal/handler"
	"silentlibrary/internal/service"
)

// CustomValidator adapts go-playground/validator to echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates a struct.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authService service.AuthService,
	pageHandler *handler.PageHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	adminHandler *handler.AdminHandler,
) error {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	v := validator.New()
	if err := form.RegisterStrongPassword(v); err != nil {
		return err
	}
	e.Validator = &CustomValidator{validator: v}

	e.HTTPErrorHandler = pageErrorHandler
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf",
		ContextKey:     "csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(softSession(jwtService))

	// Public pages
	e.GET("/", pageHandler.Home)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.GET("/register/complete", authHandler.RegistrationComplete)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/search", bookHandler.Search)
	e.GET("/book/:id", bookHandler.Detail)

	// Member pages (require a valid session cookie)
	member := e.Group("", sessionRequired(cfg, authService))
	member.POST("/logout", authHandler.Logout)
	member.GET("/dashboard", userHandler.Dashboard)
	member.GET("/profile", userHandler.Profile)
	member.POST("/profile", userHandler.UpdateProfile)
	member.POST("/book/:id/review", bookHandler.Review)
	member.POST("/book/:id/borrow", bookHandler.Borrow)
	member.POST("/loans/:id/return", bookHandler.Return)
	member.POST("/fines/:id/pay", userHandler.PayFine)

	// Staff pages
	admin := e.Group("/admin", sessionRequired(cfg, authService), staffOnly)
	admin.GET("", adminHandler.Dashboard)
	admin.GET("/books", adminHandler.Books)
	admin.GET("/books/add", adminHandler.AddBookPage)
	admin.POST("/books/add", adminHandler.AddBook)
	admin.GET("/books/edit/:id", adminHandler.EditBookPage)
	admin.POST("/books/edit/:id", adminHandler.EditBook)
	admin.GET("/books/delete/:id", adminHandler.DeleteBookPage)
	admin.POST("/books/delete/:id", adminHandler.DeleteBook)

	return nil
}

// softSession parses the session cookie when present so public pages can show
// the logged-in state, without ever rejecting the request.
func softSession(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
				if claims, err := jwtService.ValidateToken(cookie.Value); err == nil {
					c.Set("session_claims", claims)
				}
			}
			return next(c)
		}
	}
}

// sessionRequired enforces a valid session cookie. On an expired access token
// it tries the refresh cookie once, reissues the session cookie, and redirects
// onward; otherwise it redirects to the login form.
func sessionRequired(cfg *config.Config, authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "cookie:" + auth.SessionCookieName,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
		ErrorHandler: refreshOrLogin(authService),
	})
}

// refreshOrLogin reissues the session cookie from the refresh token when it
// can. Only GETs are replayed at their original URL; a redirect turns a POST
// into a body-less GET, so form submissions land on the dashboard instead.
func refreshOrLogin(authService service.AuthService) func(c echo.Context, err error) error {
	return func(c echo.Context, err error) error {
		if cookie, cerr := c.Cookie(auth.RefreshCookieName); cerr == nil && cookie.Value != "" {
			accessToken, rerr := authService.RefreshToken(c.Request().Context(), cookie.Value)
			if rerr == nil {
				c.SetCookie(&http.Cookie{
					Name:     auth.SessionCookieName,
					Value:    accessToken,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				target := "/dashboard"
				if c.Request().Method == http.MethodGet {
					target = c.Request().RequestURI
				}
				return c.Redirect(http.StatusSeeOther, target)
			}
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}
}

// staffOnly gates the admin pages on the staff flag in the session claims.
func staffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := handler.CurrentClaims(c)
		if claims == nil || !claims.IsStaff {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// pageErrorHandler renders errors as HTML pages instead of echo's default JSON.
func pageErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	switch e := err.(type) {
	case *echo.HTTPError:
		status = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		}
	default:
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
			message = "The page you are looking for does not exist."
		} else {
			httpErr := apperrors.MapErrorToHTTP(err)
			status = httpErr.StatusCode
			message = httpErr.Message
		}
	}

	if status == http.StatusNotFound {
		message = "The page you are looking for does not exist."
	}

	csrf, _ := c.Get("csrf").(string)
	if rerr := c.Render(status, "error.html", map[string]interface{}{
		"Status":  status,
		"Message": message,
		"User":    handler.CurrentClaims(c),
		"CSRF":    csrf,
	}); rerr != nil {
		c.Logger().Error(rerr)
		_ = c.String(status, message)
	}
}
