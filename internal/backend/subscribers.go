package backend

import (
	"context"
	"net/http"

	"github.com/goserg/clubsite/internal/domain"
)

const subscribersPath = "api/subscribers/"

// Subscribe is public and sends no token.
func (c *Client) Subscribe(ctx context.Context, sub domain.Subscription) (domain.Subscriber, error) {
	var subscriber domain.Subscriber
	err := c.sendJSON(ctx, http.MethodPost, subscribersPath, "", sub.Trimmed(), &subscriber)
	return subscriber, err
}

func (c *Client) ListSubscribers(ctx context.Context, token string) ([]domain.Subscriber, error) {
	return fetchAll[domain.Subscriber](ctx, c, subscribersPath, token)
}

func (c *Client) DeleteSubscriber(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, idPath(subscribersPath, id), token, nil, nil)
}
