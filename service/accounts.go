package service

import (
	"context"
	"fmt"

	"agora/domain"
)

// CreateAccount registers a user with an explicit access level. It bypasses
// the HTTP access rules and is meant for operator tooling only.
func (b *Blog) CreateAccount(ctx context.Context, r Registration, access domain.AccessLevel) (domain.User, error) {
	if access != domain.AccessUser && access != domain.AccessAdmin {
		return domain.User{}, fmt.Errorf("cannot create an account with access level %s", access)
	}
	return b.createUser(ctx, r, access)
}

func (b *Blog) ChangePassword(ctx context.Context, username, password string) error {
	u, err := b.lookup(ctx, username)
	if err != nil {
		return err
	}
	digest, err := b.hasher.Hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = digest
	return b.repos.Users.Update(ctx, u)
}

// DeleteAccount removes the user along with their posts and comments.
func (b *Blog) DeleteAccount(ctx context.Context, username string) error {
	u, err := b.lookup(ctx, username)
	if err != nil {
		return err
	}
	return b.repos.Users.Delete(ctx, u.ID)
}

func (b *Blog) lookup(ctx context.Context, username string) (domain.User, error) {
	u, err := b.repos.Users.FindBy(ctx, domain.UserFieldUsername, username)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	return *u, nil
}
