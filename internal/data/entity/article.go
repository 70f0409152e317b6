package entity

import "github.com/google/uuid"

type Article struct {
	Base
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	IsPublished bool      `db:"is_published"`
	AuthorID    uuid.UUID `db:"author_id"`

	// AuthorEmail is joined from users on read, nil when the author row is gone.
	AuthorEmail *string `db:"author_email"`
}

// ArticleFilter narrows an article listing by publication state.
type ArticleFilter string

const (
	ArticleFilterAll       ArticleFilter = "all"
	ArticleFilterPublished ArticleFilter = "published"
	ArticleFilterDraft     ArticleFilter = "draft"
)
