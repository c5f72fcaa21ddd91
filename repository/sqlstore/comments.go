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

type commentsRepo struct{ db *sql.DB }

const selectComment = `SELECT c.id, c.body, c.author_id, u.username, u.email, c.post_id, c.created_at
	FROM comments c JOIN users u ON u.id = c.author_id`

func (r *commentsRepo) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, body, author_id, post_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Body, c.AuthorID, c.PostID, time.Now().UTC(),
	)
	if err != nil {
		return domain.Comment{}, classify(err, "comment")
	}
	return r.GetByID(ctx, c.ID)
}

func (r *commentsRepo) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, selectComment+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Comment{}, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *commentsRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, selectComment+` WHERE c.post_id = $1 ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound))
}

func scanComment(row scanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.Body, &c.AuthorID, &c.AuthorName, &c.AuthorEmail, &c.PostID, &c.CreatedAt)
	return c, err
}
