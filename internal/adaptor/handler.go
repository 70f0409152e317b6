package adaptor

import (
	"dcms/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Article *ArticleHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Registration, service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Article: NewArticleHandler(service.Article, log),
	}
}
