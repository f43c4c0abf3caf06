package ports

import (
	"context"

	"github.com/StaeyKay/blog-api/internal/core/domain"
)

// ArticleRepository persists articles. Update and Delete are scoped to the
// owner: a foreign or missing id returns domain.ErrArticleNotFound.
type ArticleRepository interface {
	Create(ctx context.Context, a *domain.Article) (*domain.Article, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Article, error)
	Update(ctx context.Context, userID string, a *domain.Article) (*domain.Article, error)
	Delete(ctx context.Context, userID, id string) error
}
