package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agora/form"
	"agora/mail"
)

func (h *Handler) GetAbout(c echo.Context) error {
	return h.render(c, http.StatusOK, "about.html", page{})
}

func (h *Handler) GetContactForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "contact.html", page{Form: form.Contact{}})
}

func (h *Handler) GetMessageSent(c echo.Context) error {
	return h.render(c, http.StatusOK, "message-sent.html", page{})
}

// SendContact mails one message per valid submission. A delivery failure
// re-renders the form with the visitor's input instead of failing the
// request.
func (h *Handler) SendContact(c echo.Context) error {
	var f form.Contact
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs, err := validate(c, &f); err != nil {
		return err
	} else if errs != nil {
		return h.render(c, http.StatusBadRequest, "contact.html", page{Form: f, Errors: errs})
	}

	err := h.Mailer.Send(c.Request().Context(), mail.Message{
		Name:  f.Name,
		Email: f.Email,
		Phone: f.Phone,
		Body:  f.Message,
	})
	h.Metrics.ContactMessage(err == nil)
	if err != nil {
		h.Log.Error().Err(err).Msg("sending contact message")
		return h.render(c, http.StatusBadGateway, "contact.html", page{
			Form:    f,
			Flashes: []Flash{{Category: "danger", Message: "Your message could not be sent"}},
		})
	}
	return c.Redirect(http.StatusFound, "/form-entry")
}

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		h.Log.Error().Err(err).Msg("health check")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
