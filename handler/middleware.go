package handler

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"agora/auth"
	"agora/domain"
)

const sessionKey = "session"

// sessionToken extracts and verifies the session cookie. Requests without a
// usable token continue as anonymous; a token that fails verification is
// also cleared from the browser.
func (h *Handler) sessionToken() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  sessionKey,
		TokenLookup: "cookie:" + auth.CookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return h.Sessions.Parse(token)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			if cookie, cerr := c.Cookie(auth.CookieName); cerr == nil && cookie.Value != "" {
				h.Log.Debug().Err(err).Msg("discarding invalid session cookie")
				c.SetCookie(h.Sessions.Clear())
			}
			return nil
		},
	})
}

// loadIdentity resolves the session's user and stores the identity in the
// request context. A session whose user no longer exists fails the request
// with a 404 and is cleared.
func (h *Handler) loadIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := domain.Anonymous()
		if claims, ok := c.Get(sessionKey).(*auth.Claims); ok {
			var err error
			id, err = h.Sessions.LoadIdentity(c.Request().Context(), claims)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					c.SetCookie(h.Sessions.Clear())
				}
				return err
			}
		}
		req := c.Request()
		c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), id)))
		return next(c)
	}
}

// requireAdmin runs the route through the same guard that protects the
// service operations.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	guarded := auth.RequireAdmin(func(_ context.Context, c echo.Context) (struct{}, error) {
		return struct{}{}, next(c)
	})
	return func(c echo.Context) error {
		_, err := guarded(c.Request().Context(), c)
		return err
	}
}

func requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	guarded := auth.RequireAuthenticated(func(_ context.Context, c echo.Context) (struct{}, error) {
		return struct{}{}, next(c)
	})
	return func(c echo.Context) error {
		_, err := guarded(c.Request().Context(), c)
		return err
	}
}

// requireAnonymous sends already logged in users back to the front page.
func requireAnonymous(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if identity(c).IsAuthenticated() {
			return c.Redirect(http.StatusFound, "/")
		}
		return next(c)
	}
}

func (h *Handler) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			h.Metrics.ObserveRequest(v.Method, route, v.Status, v.Latency)

			event := h.Log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = h.Log.Warn()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", route).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
