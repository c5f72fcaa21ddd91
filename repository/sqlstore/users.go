package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agora/domain"
)

type usersRepo struct{ db *sql.DB }

const userColumns = `id, username, email, password, access_level, created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, int(u.Access), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, classify(err, "user")
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, err
}

func (r *usersRepo) FindBy(ctx context.Context, field domain.UserField, value string) (*domain.User, error) {
	var column string
	switch field {
	case domain.UserFieldUsername:
		column = "username"
	case domain.UserFieldEmail:
		column = "email"
	default:
		return nil, fmt.Errorf("users are not unique by %q", field)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $2, password = $3, updated_at = $4 WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, time.Now().UTC(),
	)
	if err != nil {
		return classify(err, "user")
	}
	return mustAffect(res, fmt.Errorf("user %s: %w", u.ID, domain.ErrNotFound))
}

// Delete removes the user, their posts and every comment that would be left
// pointing at either.
func (r *usersRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE author_id = $1 OR post_id IN (SELECT id FROM posts WHERE author_id = $1)`, id); err != nil {
			return fmt.Errorf("deleting comments of user %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE author_id = $1`, id); err != nil {
			return fmt.Errorf("deleting posts of user %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting user %s: %w", id, err)
		}
		return mustAffect(res, fmt.Errorf("user %s: %w", id, domain.ErrNotFound))
	})
}

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	var access int
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &access, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Access = domain.AccessLevel(access)
	return u, nil
}
