package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"agora/domain"
	"agora/form"
)

// HTTPErrorHandler renders error.html for every error that reaches echo.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := status(err)
	if code != http.StatusNotFound {
		h.Log.Error().
			Err(err).
			Int("status", code).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = h.render(c, code, "error.html", page{Status: code, Message: message})
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("rendering error page")
	}
}

func status(err error) (int, string) {
	var he *echo.HTTPError
	var fe form.Errors
	switch {
	case errors.As(err, &he):
		if he.Code == http.StatusNotFound {
			return he.Code, "The page you are looking for does not exist."
		}
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "The page you are looking for does not exist."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You are not allowed to do that."
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "You need to log in first."
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "That already exists."
	case errors.As(err, &fe):
		return http.StatusBadRequest, fe.Error()
	}
	return http.StatusInternalServerError, "Something went wrong on our side."
}
