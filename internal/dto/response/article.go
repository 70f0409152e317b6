package response

import (
	"time"

	"dcms/internal/data/entity"
)

type ArticleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsPublished bool      `json:"isPublished"`
	AuthorID    string    `json:"authorId"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ArticleToResponse(article *entity.Article) ArticleResponse {
	authorEmail := "Unknown"
	if article.AuthorEmail != nil {
		authorEmail = *article.AuthorEmail
	}

	return ArticleResponse{
		ID:          article.ID.String(),
		Title:       article.Title,
		Content:     article.Content,
		IsPublished: article.IsPublished,
		AuthorID:    article.AuthorID.String(),
		AuthorEmail: authorEmail,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
	}
}
