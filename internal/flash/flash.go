package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const cookieName = "sl_flash"

// Message is a one-shot notice rendered on the next page load.
type Message struct {
	Level string `json:"level"` // success, error, info
	Text  string `json:"text"`
}

// Success queues a success message.
func Success(c echo.Context, text string) { add(c, "success", text) }

// Error queues an error message.
func Error(c echo.Context, text string) { add(c, "error", text) }

// Info queues an info message.
func Info(c echo.Context, text string) { add(c, "info", text) }

func add(c echo.Context, level, text string) {
	msgs := peek(c)
	msgs = append(msgs, Message{Level: level, Text: text})
	payload, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
	})
}

// Pop returns queued messages and clears the cookie.
func Pop(c echo.Context) []Message {
	msgs := peek(c)
	if len(msgs) > 0 {
		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
	return msgs
}

func peek(c echo.Context) []Message {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
