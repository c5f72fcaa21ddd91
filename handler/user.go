package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"agora/domain"
	"agora/form"
	"agora/service"
)

func (h *Handler) GetRegisterForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "register.html", page{Form: form.Register{}})
}

func (h *Handler) GetLoginForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "login.html", page{Form: form.Login{}})
}

func (h *Handler) NewUser(c echo.Context) error {
	var f form.Register
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs, err := validate(c, &f); err != nil {
		return err
	} else if errs != nil {
		f.Password = ""
		return h.render(c, http.StatusBadRequest, "register.html", page{Form: f, Errors: errs})
	}

	user, err := h.Blog.Register(c.Request().Context(), service.Registration{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
	})
	if field, ok := domain.ConflictField(err); ok {
		if field == string(domain.UserFieldUsername) {
			h.flash(c, "danger", "The username already exists. Login instead!")
			return c.Redirect(http.StatusFound, "/login")
		}
		h.flash(c, "danger", "An account with this email already exists.")
		return c.Redirect(http.StatusFound, "/register")
	}
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	h.Log.Info().Str("user_id", user.ID).Msg("user registered")
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Login(c echo.Context) error {
	var f form.Login
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs, err := validate(c, &f); err != nil {
		return err
	} else if errs != nil {
		f.Password = ""
		return h.render(c, http.StatusBadRequest, "login.html", page{Form: f, Errors: errs})
	}

	user, err := h.Blog.Authenticate(c.Request().Context(), f.Username, f.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.Metrics.Login("rejected")
		message := "Password incorrect, please try again."
		if errors.Is(err, domain.ErrUnknownUser) {
			message = "The username does not exist"
		}
		f.Password = ""
		return h.render(c, http.StatusUnauthorized, "login.html", page{
			Form:    f,
			Flashes: []Flash{{Category: "danger", Message: message}},
		})
	}
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	h.Metrics.Login("ok")
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(h.Sessions.Clear())
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) startSession(c echo.Context, u domain.User) error {
	cookie, err := h.Sessions.Issue(u)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}
