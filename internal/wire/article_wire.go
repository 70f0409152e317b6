package wire

import (
	"dcms/internal/adaptor"
	"dcms/internal/data/entity"
	"dcms/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireArticle(r chi.Router, articleHandler *adaptor.ArticleHandler, deps *routeDeps) {
	r.Route("/api/articles", func(r chi.Router) {
		// Every article route needs a valid access token
		r.Use(middleware.Auth(deps.tokens, deps.log))

		// ==================== READ ROUTES ====================
		// Non-admins only ever see published articles in the list
		r.Get("/", articleHandler.GetArticles)
		r.Get("/{id}", articleHandler.GetArticleByID)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(deps.log, string(entity.RoleAdmin)))

			r.Post("/", articleHandler.CreateArticle)
			r.Patch("/{id}", articleHandler.UpdateArticle)
			r.Delete("/{id}", articleHandler.DeleteArticle)
		})
	})
}
