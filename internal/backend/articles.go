package backend

import (
	"context"

	"github.com/goserg/clubsite/internal/domain"
)

func (c *Client) ListArticles(ctx context.Context, token string) ([]domain.Article, error) {
	return fetchAll[domain.Article](ctx, c, "api/articles/", token)
}
