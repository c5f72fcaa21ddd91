package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agora/domain"
	"agora/form"
	"agora/service"
)

// pathID returns the :id parameter when it is a well formed id. Anything
// else cannot name a record and is reported as not found.
func pathID(c echo.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", fmt.Errorf("id %q: %w", c.Param("id"), domain.ErrNotFound)
	}
	return id.String(), nil
}

func (h *Handler) GetPosts(c echo.Context) error {
	posts, err := h.Blog.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "index.html", page{Posts: posts})
}

func (h *Handler) GetPost(c echo.Context) error {
	return h.showPost(c, http.StatusOK, form.Comment{}, nil)
}

func (h *Handler) showPost(c echo.Context, code int, f form.Comment, errs form.Errors) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	post, comments, err := h.Blog.PostWithComments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, code, "post.html", page{
		Post:     post,
		Comments: comments,
		Form:     f,
		Errors:   errs,
	})
}

func (h *Handler) NewComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if !identity(c).IsAuthenticated() {
		h.flash(c, "danger", "You need to log in to comment.")
		return c.Redirect(http.StatusFound, "/login")
	}

	var f form.Comment
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs, err := validate(c, &f); err != nil {
		return err
	} else if errs != nil {
		return h.showPost(c, http.StatusBadRequest, f, errs)
	}

	_, err = h.Blog.AddComment(c.Request().Context(), service.CommentInput{PostID: id, Text: f.Text})
	if errors.Is(err, service.ErrEmptyComment) {
		return h.showPost(c, http.StatusBadRequest, f, form.Errors{"comment": "This field is required."})
	}
	if err != nil {
		return err
	}
	h.Metrics.CommentAdded()
	return c.Redirect(http.StatusFound, "/blog/"+id)
}

func (h *Handler) GetNewPostForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "post-edit.html", page{Form: form.Post{}})
}

func (h *Handler) NewPost(c echo.Context) error {
	var f form.Post
	if err := c.Bind(&f); err != nil {
		return err
	}
	if errs, err := validate(c, &f); err != nil {
		return err
	} else if errs != nil {
		return h.render(c, http.StatusBadRequest, "post-edit.html", page{Form: f, Errors: errs})
	}

	_, err := h.Blog.CreatePost(c.Request().Context(), postInput(f))
	if field, ok := domain.ConflictField(err); ok {
		return h.render(c, http.StatusConflict, "post-edit.html", page{
			Form:   f,
			Errors: form.Errors{field: "A post with this " + field + " already exists."},
		})
	}
	if err != nil {
		return err
	}
	h.Metrics.PostWritten("create")
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) GetEditPostForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.Blog.Post(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "post-edit.html", page{
		Editing: true,
		Post:    p,
		Form: form.Post{
			Title:    p.Title,
			Subtitle: p.Subtitle,
			ImageURL: p.ImageURL,
			Body:     p.Body,
		},
	})
}

func (h *Handler) EditPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var f form.Post
	if err := c.Bind(&f); err != nil {
		return err
	}
	editing := page{Editing: true, Post: domain.Post{ID: id}, Form: f}
	if errs, err := validate(c, &f); err != nil {
		return err
	} else if errs != nil {
		editing.Errors = errs
		return h.render(c, http.StatusBadRequest, "post-edit.html", editing)
	}

	_, err = h.Blog.UpdatePost(c.Request().Context(), service.PostEdit{ID: id, PostInput: postInput(f)})
	if field, ok := domain.ConflictField(err); ok {
		editing.Errors = form.Errors{field: "A post with this " + field + " already exists."}
		return h.render(c, http.StatusConflict, "post-edit.html", editing)
	}
	if err != nil {
		return err
	}
	h.Metrics.PostWritten("update")
	return c.Redirect(http.StatusFound, "/blog/"+id)
}

func (h *Handler) DeletePost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Blog.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}
	h.Metrics.PostWritten("delete")
	h.flash(c, "success", "The post was deleted.")
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) DeleteComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	comment, err := h.Blog.Comment(ctx, id)
	if err != nil {
		return err
	}
	if err := h.Blog.DeleteComment(ctx, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/blog/"+comment.PostID)
}

func postInput(f form.Post) service.PostInput {
	return service.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImageURL: f.ImageURL,
	}
}

// validate runs the echo validator. Field errors come back as errs; any
// other failure as err.
func validate(c echo.Context, f interface{}) (form.Errors, error) {
	err := c.Validate(f)
	if err == nil {
		return nil, nil
	}
	var errs form.Errors
	if errors.As(err, &errs) {
		return errs, nil
	}
	return nil, err
}
