// Package service holds the blog operations behind the HTTP handlers and the
// admin CLI. Privileged operations are wrapped with the auth guards when the
// Blog is constructed, so every caller goes through the same access check.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"agora/auth"
	"agora/domain"
	"agora/repository"
	"agora/sanitize"
)

// ErrEmptyComment is returned when nothing of a comment survives sanitizing.
var ErrEmptyComment = errors.New("comment is empty")

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(digest, plain string) bool
	NeedsRehash(digest string) bool
}

type Registration struct {
	Username string
	Email    string
	Password string
}

type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

type PostEdit struct {
	ID string
	PostInput
}

type CommentInput struct {
	PostID string
	Text   string
}

type guarded[In, Out any] func(context.Context, In) (Out, error)

type Blog struct {
	repos     repository.Repositories
	hasher    PasswordHasher
	sanitizer *sanitize.Sanitizer
	log       zerolog.Logger

	createPost    guarded[PostInput, domain.Post]
	updatePost    guarded[PostEdit, domain.Post]
	deletePost    guarded[string, struct{}]
	addComment    guarded[CommentInput, domain.Comment]
	deleteComment guarded[string, struct{}]
}

func New(repos repository.Repositories, hasher PasswordHasher, sanitizer *sanitize.Sanitizer, log zerolog.Logger) *Blog {
	b := &Blog{
		repos:     repos,
		hasher:    hasher,
		sanitizer: sanitizer,
		log:       log,
	}
	b.createPost = auth.RequireAdmin(b.doCreatePost)
	b.updatePost = auth.RequireAdmin(b.doUpdatePost)
	b.deletePost = auth.RequireAdmin(b.doDeletePost)
	b.addComment = auth.RequireAuthenticated(b.doAddComment)
	b.deleteComment = auth.RequireAdmin(b.doDeleteComment)
	return b
}

// Register creates a regular account. Username and e-mail collisions are
// reported as *domain.AlreadyExistsError naming the field, whether they are
// caught by the lookup here or by the store's unique constraints.
func (b *Blog) Register(ctx context.Context, r Registration) (domain.User, error) {
	return b.createUser(ctx, r, domain.AccessUser)
}

func (b *Blog) createUser(ctx context.Context, r Registration, access domain.AccessLevel) (domain.User, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	for _, unique := range []struct {
		field domain.UserField
		value string
	}{
		{domain.UserFieldUsername, r.Username},
		{domain.UserFieldEmail, r.Email},
	} {
		existing, err := b.repos.Users.FindBy(ctx, unique.field, unique.value)
		if err != nil {
			return domain.User{}, err
		}
		if existing != nil {
			return domain.User{}, &domain.AlreadyExistsError{Entity: "user", Field: string(unique.field)}
		}
	}

	digest, err := b.hasher.Hash(r.Password)
	if err != nil {
		return domain.User{}, err
	}
	return b.repos.Users.Create(ctx, domain.User{
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: digest,
		Access:       access,
	})
}

// Authenticate checks a username and password. It returns
// domain.ErrUnknownUser or domain.ErrWrongPassword, both of which match
// domain.ErrInvalidCredentials.
func (b *Blog) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := b.repos.Users.FindBy(ctx, domain.UserFieldUsername, strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrUnknownUser
	}
	if !b.hasher.Verify(u.PasswordHash, password) {
		return domain.User{}, domain.ErrWrongPassword
	}

	if b.hasher.NeedsRehash(u.PasswordHash) {
		digest, err := b.hasher.Hash(password)
		if err != nil {
			b.log.Warn().Err(err).Str("user_id", u.ID).Msg("could not hash password for digest upgrade")
			return *u, nil
		}
		u.PasswordHash = digest
		if err := b.repos.Users.Update(ctx, *u); err != nil {
			b.log.Warn().Err(err).Str("user_id", u.ID).Msg("could not upgrade password digest")
		}
	}
	return *u, nil
}

func (b *Blog) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return b.repos.Posts.List(ctx)
}

func (b *Blog) Post(ctx context.Context, id string) (domain.Post, error) {
	return b.repos.Posts.GetByID(ctx, id)
}

// PostWithComments returns a post and its comments, oldest first.
func (b *Blog) PostWithComments(ctx context.Context, id string) (domain.Post, []domain.Comment, error) {
	p, err := b.repos.Posts.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, nil, err
	}
	comments, err := b.repos.Comments.ListByPost(ctx, id)
	if err != nil {
		return domain.Post{}, nil, err
	}
	return p, comments, nil
}

// CreatePost requires an admin identity in ctx. The body is sanitized before
// it is stored.
func (b *Blog) CreatePost(ctx context.Context, in PostInput) (domain.Post, error) {
	return b.createPost(ctx, in)
}

func (b *Blog) UpdatePost(ctx context.Context, in PostEdit) (domain.Post, error) {
	return b.updatePost(ctx, in)
}

func (b *Blog) DeletePost(ctx context.Context, id string) error {
	_, err := b.deletePost(ctx, id)
	return err
}

// AddComment requires an authenticated identity in ctx. The text is read as
// markdown and sanitized with the same allow-list as post bodies.
func (b *Blog) AddComment(ctx context.Context, in CommentInput) (domain.Comment, error) {
	return b.addComment(ctx, in)
}

func (b *Blog) DeleteComment(ctx context.Context, id string) error {
	_, err := b.deleteComment(ctx, id)
	return err
}

func (b *Blog) doCreatePost(ctx context.Context, in PostInput) (domain.Post, error) {
	author, _ := auth.IdentityFrom(ctx).User()
	title := strings.TrimSpace(in.Title)

	existing, err := b.repos.Posts.FindByTitle(ctx, title)
	if err != nil {
		return domain.Post{}, err
	}
	if existing != nil {
		return domain.Post{}, &domain.AlreadyExistsError{Entity: "post", Field: "title"}
	}

	return b.repos.Posts.Create(ctx, domain.Post{
		Title:    title,
		Subtitle: strings.TrimSpace(in.Subtitle),
		Body:     b.sanitizer.HTML(in.Body),
		ImageURL: strings.TrimSpace(in.ImageURL),
		AuthorID: author.ID,
	})
}

func (b *Blog) doUpdatePost(ctx context.Context, in PostEdit) (domain.Post, error) {
	current, err := b.repos.Posts.GetByID(ctx, in.ID)
	if err != nil {
		return domain.Post{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title != current.Title {
		existing, err := b.repos.Posts.FindByTitle(ctx, title)
		if err != nil {
			return domain.Post{}, err
		}
		if existing != nil && existing.ID != current.ID {
			return domain.Post{}, &domain.AlreadyExistsError{Entity: "post", Field: "title"}
		}
	}

	current.Title = title
	current.Subtitle = strings.TrimSpace(in.Subtitle)
	current.Body = b.sanitizer.HTML(in.Body)
	current.ImageURL = strings.TrimSpace(in.ImageURL)
	return b.repos.Posts.Update(ctx, current)
}

func (b *Blog) doDeletePost(ctx context.Context, id string) (struct{}, error) {
	return struct{}{}, b.repos.Posts.Delete(ctx, id)
}

func (b *Blog) doAddComment(ctx context.Context, in CommentInput) (domain.Comment, error) {
	author, _ := auth.IdentityFrom(ctx).User()
	if _, err := b.repos.Posts.GetByID(ctx, in.PostID); err != nil {
		return domain.Comment{}, err
	}

	body := b.sanitizer.Markdown(in.Text)
	// Markup-only input survives as empty paragraphs.
	if b.sanitizer.PlainText(body, 0) == "" && !strings.Contains(body, "<img") {
		return domain.Comment{}, ErrEmptyComment
	}
	return b.repos.Comments.Create(ctx, domain.Comment{
		Body:     body,
		AuthorID: author.ID,
		PostID:   in.PostID,
	})
}

func (b *Blog) doDeleteComment(ctx context.Context, id string) (struct{}, error) {
	return struct{}{}, b.repos.Comments.Delete(ctx, id)
}

func (b *Blog) Comment(ctx context.Context, id string) (domain.Comment, error) {
	return b.repos.Comments.GetByID(ctx, id)
}
