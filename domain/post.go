package domain

import (
	"time"
)

type Post struct {
	ID       string
	Title    string
	Subtitle string
	// Body is sanitized HTML.
	Body       string
	ImageURL   string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Comment struct {
	ID          string
	Body        string
	AuthorID    string
	AuthorName  string
	AuthorEmail string
	PostID      string
	CreatedAt   time.Time
}
