package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"silentlibrary/internal/auth"
	"silentlibrary/internal/model"
	"silentlibrary/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(2) == nil {
		return "", "", nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*model.User), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func sessionFailure(t *testing.T, svc service.AuthService, method, target string, refreshToken string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if refreshToken != "" {
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: refreshToken})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := refreshOrLogin(svc)(c, echo.ErrUnauthorized)
	assert.NoError(t, err)
	return rec
}

func TestRefreshOrLogin(t *testing.T) {
	t.Run("expired GET is replayed at its own URL", func(t *testing.T) {
		mAuth := new(MockAuthService)
		mAuth.On("RefreshToken", mock.Anything, "refresh-token").Return("new-access", nil)

		rec := sessionFailure(t, mAuth, http.MethodGet, "/profile", "refresh-token")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/profile", rec.Header().Get(echo.HeaderLocation))

		var sessionCookie *http.Cookie
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == auth.SessionCookieName {
				sessionCookie = ck
			}
		}
		if assert.NotNil(t, sessionCookie) {
			assert.Equal(t, "new-access", sessionCookie.Value)
		}
		mAuth.AssertExpectations(t)
	})

	t.Run("expired POST lands on the dashboard", func(t *testing.T) {
		mAuth := new(MockAuthService)
		mAuth.On("RefreshToken", mock.Anything, "refresh-token").Return("new-access", nil)

		rec := sessionFailure(t, mAuth, http.MethodPost, "/loans/7/return", "refresh-token")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("no refresh cookie goes to login", func(t *testing.T) {
		rec := sessionFailure(t, new(MockAuthService), http.MethodGet, "/dashboard", "")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("revoked refresh token goes to login", func(t *testing.T) {
		mAuth := new(MockAuthService)
		mAuth.On("RefreshToken", mock.Anything, "stale-token").Return("", assert.AnError)

		rec := sessionFailure(t, mAuth, http.MethodGet, "/dashboard", "stale-token")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
		mAuth.AssertExpectations(t)
	})
}
