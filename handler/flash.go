package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const flashCookie = "flash"

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// flash queues a message for the next rendered page.
func (h *Handler) flash(c echo.Context, category, message string) {
	queued := append(readFlashes(c), Flash{Category: category, Message: message})
	raw, err := json.Marshal(queued)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   !h.isDev(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

// popFlashes returns the queued messages and expires the cookie holding them.
func (h *Handler) popFlashes(c echo.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetCookie(&http.Cookie{
			Name:     flashCookie,
			Path:     "/",
			HttpOnly: true,
			Secure:   !h.isDev(),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
	}
	return flashes
}

func readFlashes(c echo.Context) []Flash {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
