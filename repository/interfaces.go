package repository

import (
	"context"

	"agora/domain"
)

// Users persists accounts. Username and access level never change after
// Create; Update only touches the e-mail address and password digest.
type Users interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	// FindBy returns nil when no user has value in field.
	FindBy(ctx context.Context, field domain.UserField, value string) (*domain.User, error)
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id string) error
}

type Posts interface {
	Create(ctx context.Context, p domain.Post) (domain.Post, error)
	GetByID(ctx context.Context, id string) (domain.Post, error)
	FindByTitle(ctx context.Context, title string) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Update(ctx context.Context, p domain.Post) (domain.Post, error)
	// Delete removes the post together with its comments.
	Delete(ctx context.Context, id string) error
}

type Comments interface {
	Create(ctx context.Context, c domain.Comment) (domain.Comment, error)
	GetByID(ctx context.Context, id string) (domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type Repositories struct {
	Users    Users
	Posts    Posts
	Comments Comments
}
