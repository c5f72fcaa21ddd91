package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"agora/auth"
	"agora/domain"
	"agora/form"
	"agora/mail"
	"agora/metrics"
	"agora/sanitize"
	"agora/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries everything the routes need. It is built once in main and
// shared by all requests.
type Handler struct {
	Blog        *service.Blog
	Sessions    *auth.Sessions
	Sanitizer   *sanitize.Sanitizer
	Mailer      mail.Sender
	Metrics     *metrics.Metrics
	DB          Pinger
	Log         zerolog.Logger
	Environment string
}

func (h *Handler) isDev() bool { return h.Environment == "dev" }

// page is the data every template receives. Fields that a page does not use
// stay at their zero value.
type page struct {
	Identity domain.Identity
	Flashes  []Flash
	CSRF     string
	Year     int

	Form   interface{}
	Errors form.Errors

	Posts    []domain.Post
	Post     domain.Post
	Comments []domain.Comment
	Editing  bool

	Status  int
	Message string
}

func (h *Handler) render(c echo.Context, code int, name string, p page) error {
	p.Identity = identity(c)
	p.Flashes = append(h.popFlashes(c), p.Flashes...)
	p.CSRF, _ = c.Get("csrf").(string)
	p.Year = time.Now().Year()
	return c.Render(code, name, p)
}

func identity(c echo.Context) domain.Identity {
	return auth.IdentityFrom(c.Request().Context())
}
