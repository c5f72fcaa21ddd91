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

type postsRepo struct{ db *sql.DB }

const selectPost = `SELECT p.id, p.title, p.subtitle, p.body, p.img_url, p.author_id, u.username, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.author_id`

func (r *postsRepo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, subtitle, body, img_url, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Title, p.Subtitle, p.Body, p.ImageURL, p.AuthorID, now, now,
	)
	if err != nil {
		return domain.Post{}, classify(err, "post")
	}
	return r.GetByID(ctx, p.ID)
}

func (r *postsRepo) GetByID(ctx context.Context, id string) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Post{}, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return p, err
}

func (r *postsRepo) FindByTitle(ctx context.Context, title string) (*domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE p.title = $1`, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postsRepo) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPost+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update replaces the editable fields of the post; the author and creation
// date are kept.
func (r *postsRepo) Update(ctx context.Context, p domain.Post) (domain.Post, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $2, subtitle = $3, body = $4, img_url = $5, updated_at = $6 WHERE id = $1`,
		p.ID, p.Title, p.Subtitle, p.Body, p.ImageURL, time.Now().UTC(),
	)
	if err != nil {
		return domain.Post{}, classify(err, "post")
	}
	if err := mustAffect(res, fmt.Errorf("post %s: %w", p.ID, domain.ErrNotFound)); err != nil {
		return domain.Post{}, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *postsRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("deleting comments of post %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting post %s: %w", id, err)
		}
		return mustAffect(res, fmt.Errorf("post %s: %w", id, domain.ErrNotFound))
	})
}

func scanPost(row scanner) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Body, &p.ImageURL, &p.AuthorID, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
