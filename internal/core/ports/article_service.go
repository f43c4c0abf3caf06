package ports

import (
	"context"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// ArticleInput is the writable content of an article.
type ArticleInput struct {
	Title    string
	Content  string
	Author   string
	Category string
	Date     string
	ReadTime string
	Image    string
}

// ArticleService manages the caller's own articles.
type ArticleService interface {
	Add(ctx context.Context, userID string, in ArticleInput) (*domain.Article, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Article, error)
	Update(ctx context.Context, userID, id string, in ArticleInput) (*domain.Article, error)
	Delete(ctx context.Context, userID, id string) error
}
