package handler

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"agora/sanitize"
	"agora/web"
)

type TemplateRegistry struct {
	templates map[string]*template.Template
}

func (t *TemplateRegistry) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		err := errors.New("template not found: " + name)
		return err
	}

	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// NewRenderer parses every page of web.Pages together with base.html.
func NewRenderer(s *sanitize.Sanitizer) (*TemplateRegistry, error) {
	funcs := template.FuncMap{
		"date":     func(t time.Time) string { return t.Format("January 02, 2006") },
		"gravatar": gravatar,
		"preview":  s.PlainText,
		// Bodies are sanitized before they are stored.
		"trusted": func(html string) template.HTML { return template.HTML(html) },
	}

	t := make(map[string]*template.Template, len(web.Pages))
	for _, name := range web.Pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(web.Templates, "templates/"+name, "templates/base.html")
		if err != nil {
			return nil, err
		}
		t[name] = tmpl
	}
	return &TemplateRegistry{templates: t}, nil
}

func gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=150&r=pg&d=retro"
}
