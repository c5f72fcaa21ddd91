package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"agora/form"
	"agora/web"
)

// NewServer builds the echo instance with all middleware and routes.
func NewServer(h *Handler) (*echo.Echo, error) {
	renderer, err := NewRenderer(h.Sanitizer)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = form.NewValidator()
	// Fancy error pages
	e.HTTPErrorHandler = h.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(h.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "same-origin",
	}))
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   !h.isDev(),
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(h.sessionToken())
	e.Use(h.loadIdentity)

	// Frontend
	e.GET("/", h.GetPosts)
	e.GET("/blog/:id", h.GetPost)
	e.GET("/about", h.GetAbout)
	e.GET("/contact", h.GetContactForm)
	e.GET("/form-entry", h.GetMessageSent)
	e.GET("/register", h.GetRegisterForm, requireAnonymous)
	e.GET("/login", h.GetLoginForm, requireAnonymous)
	e.GET("/add_post", h.GetNewPostForm, requireAdmin)
	e.GET("/edit-post/:id", h.GetEditPostForm, requireAdmin)
	e.StaticFS("/static", echo.MustSubFS(web.Static, "static"))

	// Backend
	e.POST("/blog/:id", h.NewComment)
	e.POST("/add_post", h.NewPost, requireAdmin)
	e.POST("/edit-post/:id", h.EditPost, requireAdmin)
	e.GET("/delete-post/:id", h.DeletePost, requireAdmin)
	e.POST("/delete-post/:id", h.DeletePost, requireAdmin)
	e.POST("/delete-comment/:id", h.DeleteComment, requireAdmin)
	e.POST("/contact", h.SendContact)
	e.POST("/register", h.NewUser, requireAnonymous)
	e.POST("/login", h.Login, requireAnonymous)
	e.GET("/logout", h.Logout, requireLogin)

	// Operations
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.Metrics.Handler()), requireAdmin)

	return e, nil
}
