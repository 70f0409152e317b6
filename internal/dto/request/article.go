package request

type CreateArticleRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Content     string `json:"content" validate:"required"`
	IsPublished *bool  `json:"isPublished,omitempty"`
}

// UpdateArticleRequest only carries the fields the caller wants to change.
type UpdateArticleRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content     *string `json:"content,omitempty" validate:"omitempty,min=1"`
	IsPublished *bool   `json:"isPublished,omitempty"`
}
