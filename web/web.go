// Package web embeds the HTML templates and static assets of the blog.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS

// Pages lists the templates that render a full page on top of base.html.
var Pages = []string{
	"index.html",
	"post.html",
	"post-edit.html",
	"contact.html",
	"message-sent.html",
	"about.html",
	"register.html",
	"login.html",
	"error.html",
}
