package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	e := echo.New()

	// First request queues the message.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Success(c, "Welcome back!")

	res := rec.Result()
	var flashCookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == cookieName {
			flashCookie = ck
		}
	}
	require.NotNil(t, flashCookie)
	require.NotEmpty(t, flashCookie.Value)

	// Second request carries the cookie back and pops it.
	req2 := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req2.AddCookie(flashCookie)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	msgs := Pop(c2)
	require.Len(t, msgs, 1)
	assert.Equal(t, "success", msgs[0].Level)
	assert.Equal(t, "Welcome back!", msgs[0].Text)

	// Pop must expire the cookie so the message shows once.
	var cleared *http.Cookie
	for _, ck := range rec2.Result().Cookies() {
		if ck.Name == cookieName {
			cleared = ck
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestPopWithoutCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Empty(t, Pop(c))
}

func TestPopIgnoresTamperedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%not-base64%%%"})
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Empty(t, Pop(c))
}
