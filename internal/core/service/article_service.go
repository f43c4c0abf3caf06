package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/core/domain"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

type ArticleService struct {
	repo ports.ArticleRepository
	log  zerolog.Logger
}

func NewArticleService(repo ports.ArticleRepository, log zerolog.Logger) *ArticleService {
	return &ArticleService{repo: repo, log: log}
}

// Add stores a new article owned by userID.
func (s *ArticleService) Add(ctx context.Context, userID string, in ports.ArticleInput) (*domain.Article, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if err := validateArticle(in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, toArticle(in, userID))
	if err != nil {
		return nil, fmt.Errorf("add article: %w", err)
	}
	s.log.Info().Str("article_id", created.ID).Str("user_id", userID).Msg("article added")
	return created, nil
}

func (s *ArticleService) ListMine(ctx context.Context, userID string) ([]*domain.Article, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	articles, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Update replaces the content of one of userID's articles.
func (s *ArticleService) Update(ctx context.Context, userID, id string, in ports.ArticleInput) (*domain.Article, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if err := validateArticle(in); err != nil {
		return nil, err
	}

	a := toArticle(in, userID)
	a.ID = id
	updated, err := s.repo.Update(ctx, userID, a)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ArticleService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info().Str("article_id", id).Str("user_id", userID).Msg("article deleted")
	return nil
}

func validateArticle(in ports.ArticleInput) error {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"content", in.Content},
		{"author", in.Author},
		{"category", in.Category},
		{"date", in.Date},
		{"readTime", in.ReadTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.Validation(f.name + " is required")
		}
	}
	return nil
}

func toArticle(in ports.ArticleInput, userID string) *domain.Article {
	return &domain.Article{
		Title:    in.Title,
		Content:  in.Content,
		Author:   in.Author,
		Category: in.Category,
		Date:     in.Date,
		ReadTime: in.ReadTime,
		Image:    in.Image,
		UserID:   userID,
	}
}
