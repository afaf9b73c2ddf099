package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"
)

func TestNewRendererParsesAllPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "register.html", "registration_complete.html",
		"login.html", "dashboard.html", "profile.html", "search.html",
		"book_detail.html", "admin_dashboard.html", "admin_books.html",
		"book_form.html", "book_confirm_delete.html", "error.html",
	} {
		_, ok := r.templates[name]
		assert.True(t, ok, "missing template %s", name)
	}

	_, ok := r.templates["base.html"]
	assert.False(t, ok, "layout must not be addressable as a page")
}

func TestRendererExecutesPageInsideLayout(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "home.html", map[string]interface{}{}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<nav", "layout chrome present")
	assert.Contains(t, out, "Welcome to Silent Library", "page content present")
}

func TestRendererUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "nope.html", nil, nil))
}

func TestTemplateFuncs(t *testing.T) {
	moneyFn := funcs["money"].(func(decimal.Decimal) string)
	assert.Equal(t, "2.50", moneyFn(decimal.RequireFromString("2.5")))

	starsFn := funcs["stars"].(func(int) string)
	assert.Equal(t, "★★★☆☆", starsFn(3))
	assert.Equal(t, "☆☆☆☆☆", starsFn(0))

	datePtrFn := funcs["datePtr"].(func(*time.Time) string)
	assert.Equal(t, "—", datePtrFn(nil))
}
