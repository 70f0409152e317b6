package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dcms/internal/data/entity"
	"dcms/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error)
	// FindAll lists articles newest first. A nil published returns every article.
	FindAll(ctx context.Context, published *bool) ([]*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type articleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewArticleRepository(db database.PgxIface, log *zap.Logger) ArticleRepository {
	return &articleRepository{
		db:  db,
		log: log.With(zap.String("repository", "article")),
	}
}

const articleSelect = `
	SELECT a.id, a.title, a.content, a.is_published, a.author_id,
	       u.email, a.created_at, a.updated_at
	FROM articles a
	LEFT JOIN users u ON u.id = a.author_id
`

func (r *articleRepository) Create(ctx context.Context, article *entity.Article) error {
	query := `
		INSERT INTO articles (id, title, content, is_published, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.IsPublished,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create article",
			zap.Error(err),
			zap.String("title", article.Title),
			zap.String("author_id", article.AuthorID.String()),
		)
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	query := articleSelect + ` WHERE a.id = $1`

	article, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find article by ID",
			zap.Error(err),
			zap.String("article_id", id.String()),
		)
		return nil, fmt.Errorf("find article %s: %w", id.String(), err)
	}

	return article, nil
}

func (r *articleRepository) FindAll(ctx context.Context, published *bool) ([]*entity.Article, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(articleSelect)

	args := []interface{}{}
	if published != nil {
		queryBuilder.WriteString(" WHERE a.is_published = $1")
		args = append(args, *published)
	}
	queryBuilder.WriteString(" ORDER BY a.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find articles",
			zap.Error(err),
			zap.Boolp("published", published),
		)
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer rows.Close()

	var articles []*entity.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			r.log.Error("Failed to scan article row", zap.Error(err))
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}

	r.log.Debug("Articles found", zap.Int("count", len(articles)))

	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *entity.Article) error {
	query := `
		UPDATE articles
		SET title = $2, content = $3, is_published = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.IsPublished,
		article.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update article",
			zap.Error(err),
			zap.String("article_id", article.ID.String()),
		)
		return fmt.Errorf("update article %s: %w", article.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update article %s: %w", article.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the article and reports whether a row was affected.
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete article",
			zap.Error(err),
			zap.String("article_id", id.String()),
		)
		return false, fmt.Errorf("delete article %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var article entity.Article
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.IsPublished,
		&article.AuthorID,
		&article.AuthorEmail,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}
