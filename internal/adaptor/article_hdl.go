package adaptor

import (
	"net/http"

	"dcms/internal/data/entity"
	"dcms/internal/dto/request"
	"dcms/internal/usecase"
	"dcms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	service usecase.ArticleService
	log     *zap.Logger
}

func NewArticleHandler(service usecase.ArticleService, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{
		service: service,
		log:     log.With(zap.String("handler", "article")),
	}
}

// GetArticles handles GET /api/articles?filter=all|published|draft
func (h *ArticleHandler) GetArticles(w http.ResponseWriter, r *http.Request) {
	role, _ := utils.GetRoleFromContext(r.Context())

	articles, err := h.service.List(r.Context(), entity.UserRole(role), r.URL.Query().Get("filter"))
	if err != nil {
		handleServiceError(w, h.log, err, "get articles")
		return
	}

	utils.ResponseSuccess(w, "Articles retrieved successfully", articles)
}

// GetArticleByID handles GET /api/articles/{id}
func (h *ArticleHandler) GetArticleByID(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")
	if articleID == "" {
		utils.ResponseBadRequest(w, "Article ID is required", nil)
		return
	}

	article, err := h.service.GetOne(r.Context(), articleID)
	if err != nil {
		handleServiceError(w, h.log, err, "get article by ID")
		return
	}

	utils.ResponseSuccess(w, "Article retrieved successfully", article)
}

// CreateArticle handles POST /api/articles (admin only)
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	authorID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	article, err := h.service.Create(r.Context(), &req, authorID)
	if err != nil {
		handleServiceError(w, h.log, err, "create article")
		return
	}

	utils.ResponseCreated(w, "Article created successfully", article)
}

// UpdateArticle handles PATCH /api/articles/{id} (admin only)
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")
	if articleID == "" {
		utils.ResponseBadRequest(w, "Article ID is required", nil)
		return
	}

	var req request.UpdateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	article, err := h.service.Update(r.Context(), articleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update article")
		return
	}

	utils.ResponseSuccess(w, "Article updated successfully", article)
}

// DeleteArticle handles DELETE /api/articles/{id} (admin only)
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")
	if articleID == "" {
		utils.ResponseBadRequest(w, "Article ID is required", nil)
		return
	}

	if err := h.service.Remove(r.Context(), articleID); err != nil {
		handleServiceError(w, h.log, err, "delete article")
		return
	}

	utils.ResponseSuccess(w, "Article deleted successfully", nil)
}
