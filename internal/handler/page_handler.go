package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves static-ish pages.
type PageHandler struct{}

// NewPageHandler creates a new page handler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home renders the landing page.
func (h *PageHandler) Home(c echo.Context) error {
	return render(c, http.StatusOK, "home.html", nil)
}
