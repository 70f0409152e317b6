package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dcms/internal/data/entity"
	"dcms/internal/data/repository"
	"dcms/internal/dto/request"
	"dcms/internal/dto/response"
	"dcms/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ArticleService interface {
	Create(ctx context.Context, req *request.CreateArticleRequest, authorID uuid.UUID) (*response.ArticleResponse, error)
	List(ctx context.Context, callerRole entity.UserRole, filter string) ([]response.ArticleResponse, error)
	GetOne(ctx context.Context, articleID string) (*response.ArticleResponse, error)
	Update(ctx context.Context, articleID string, req *request.UpdateArticleRequest) (*response.ArticleResponse, error)
	Remove(ctx context.Context, articleID string) error
}

type articleService struct {
	repo repository.ArticleRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewArticleService(repo repository.ArticleRepository, log *zap.Logger) ArticleService {
	return &articleService{
		repo: repo,
		log:  log.With(zap.String("service", "article")),
		now:  time.Now,
	}
}

func (s *articleService) Create(ctx context.Context, req *request.CreateArticleRequest, authorID uuid.UUID) (*response.ArticleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create article validation failed", zap.Any("errors", errs))
		return nil, newError(KindBadRequest, "validation failed: "+utils.FormatValidationErrors(errs))
	}

	now := s.now()
	article := &entity.Article{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if req.IsPublished != nil {
		article.IsPublished = *req.IsPublished
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, wrapError(KindInternal, "Failed to create article", err)
	}

	// Re-read to pick up the joined author email
	stored, err := s.repo.FindByID(ctx, article.ID)
	if err != nil || stored == nil {
		s.log.Warn("Failed to reload created article", zap.Error(err), zap.String("article_id", article.ID.String()))
		stored = article
	}

	s.log.Info("Article created",
		zap.String("article_id", article.ID.String()),
		zap.String("author_id", authorID.String()),
		zap.Bool("published", article.IsPublished),
	)

	resp := response.ArticleToResponse(stored)
	return &resp, nil
}

// List returns every article to admins (narrowed by filter) and only published
// articles to everyone else, whatever filter they ask for.
func (s *articleService) List(ctx context.Context, callerRole entity.UserRole, filter string) ([]response.ArticleResponse, error) {
	published, err := visibility(callerRole, filter)
	if err != nil {
		return nil, err
	}

	articles, err := s.repo.FindAll(ctx, published)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to get articles", err)
	}

	result := make([]response.ArticleResponse, len(articles))
	for i, article := range articles {
		result[i] = response.ArticleToResponse(article)
	}

	s.log.Debug("Articles retrieved",
		zap.String("role", string(callerRole)),
		zap.String("filter", filter),
		zap.Int("count", len(result)),
	)

	return result, nil
}

func visibility(role entity.UserRole, filter string) (*bool, error) {
	published := true
	draft := false

	switch entity.ArticleFilter(filter) {
	case "", entity.ArticleFilterAll, entity.ArticleFilterPublished, entity.ArticleFilterDraft:
	default:
		return nil, newError(KindBadRequest, fmt.Sprintf("invalid filter %q: must be one of all, published, draft", filter))
	}

	if role != entity.RoleAdmin {
		return &published, nil
	}

	switch entity.ArticleFilter(filter) {
	case entity.ArticleFilterPublished:
		return &published, nil
	case entity.ArticleFilterDraft:
		return &draft, nil
	default:
		return nil, nil
	}
}

func (s *articleService) GetOne(ctx context.Context, articleID string) (*response.ArticleResponse, error) {
	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, err
	}

	resp := response.ArticleToResponse(article)
	return &resp, nil
}

func (s *articleService) Update(ctx context.Context, articleID string, req *request.UpdateArticleRequest) (*response.ArticleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update article validation failed", zap.Any("errors", errs))
		return nil, newError(KindBadRequest, "validation failed: "+utils.FormatValidationErrors(errs))
	}

	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, err
	}

	// Apply partial updates only for provided fields
	updated := false

	if req.Title != nil && *req.Title != article.Title {
		article.Title = *req.Title
		updated = true
	}

	if req.Content != nil && *req.Content != article.Content {
		article.Content = *req.Content
		updated = true
	}

	if req.IsPublished != nil && *req.IsPublished != article.IsPublished {
		article.IsPublished = *req.IsPublished
		updated = true
	}

	if updated {
		article.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, article); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, wrapError(KindNotFound, fmt.Sprintf("Article with ID %s not found", articleID), err)
			}
			return nil, wrapError(KindInternal, "Failed to update article", err)
		}
	}

	s.log.Info("Article updated",
		zap.String("article_id", articleID),
		zap.Bool("was_updated", updated),
		zap.Bool("published", article.IsPublished),
	)

	resp := response.ArticleToResponse(article)
	return &resp, nil
}

func (s *articleService) Remove(ctx context.Context, articleID string) error {
	id, err := utils.ParseUUID(articleID)
	if err != nil {
		return wrapError(KindBadRequest, "Invalid article ID", err)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapError(KindInternal, "Failed to delete article", err)
	}
	if !deleted {
		return newError(KindNotFound, fmt.Sprintf("Article with ID %s not found", articleID))
	}

	s.log.Info("Article deleted", zap.String("article_id", articleID))
	return nil
}

func (s *articleService) find(ctx context.Context, articleID string) (*entity.Article, error) {
	id, err := utils.ParseUUID(articleID)
	if err != nil {
		return nil, wrapError(KindBadRequest, "Invalid article ID", err)
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapError(KindInternal, "Failed to get article", err)
	}
	if article == nil {
		return nil, newError(KindNotFound, fmt.Sprintf("Article with ID %s not found", articleID))
	}

	return article, nil
}
