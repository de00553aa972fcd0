package backend

import (
	"context"
	"net/http"

	"github.com/goserg/clubsite/internal/domain"
)

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Client) Login(ctx context.Context, username, password string) (Tokens, error) {
	var tokens Tokens
	err := c.sendJSON(ctx, http.MethodPost, "auth/login/", "", map[string]string{
		"username": username,
		"password": password,
	}, &tokens)
	return tokens, err
}

func (c *Client) Refresh(ctx context.Context, refresh string) (Tokens, error) {
	var tokens Tokens
	err := c.sendJSON(ctx, http.MethodPost, "auth/login/refresh/", "", map[string]string{
		"refresh": refresh,
	}, &tokens)
	if err != nil {
		return Tokens{}, err
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}
	return tokens, nil
}

func (c *Client) Profile(ctx context.Context, token string) (domain.User, error) {
	var user domain.User
	err := c.getJSON(ctx, "auth/profile/", nil, token, &user)
	return user, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, patch domain.ProfilePatch) (domain.User, error) {
	var user domain.User
	err := c.sendJSON(ctx, http.MethodPatch, "auth/profile/", token, patch, &user)
	return user, err
}

func (c *Client) Register(ctx context.Context, token string, reg domain.Registration) error {
	return c.sendJSON(ctx, http.MethodPost, "auth/register/", token, reg, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	return fetchAll[domain.User](ctx, c, "auth/users/", token)
}

func (c *Client) GetUser(ctx context.Context, token string, id int) (domain.User, error) {
	var user domain.User
	err := c.getJSON(ctx, idPath("auth/users/", id), nil, token, &user)
	return user, err
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int, patch domain.ProfilePatch) (domain.User, error) {
	var user domain.User
	err := c.sendJSON(ctx, http.MethodPatch, idPath("auth/users/", id), token, patch, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, idPath("auth/users/", id), token, nil, nil)
}

// Team lists the public team page members.
func (c *Client) Team(ctx context.Context) ([]domain.User, error) {
	return fetchAll[domain.User](ctx, c, "auth/team/", "")
}
