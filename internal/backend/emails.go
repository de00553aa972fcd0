package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goserg/clubsite/internal/domain"
)

const emailsPath = "api/emails/"

func (c *Client) ListEmails(ctx context.Context, token string, page int) (domain.Page[domain.Email], error) {
	return fetchPage[domain.Email](ctx, c, emailsPath, page, token)
}

func (c *Client) GetEmail(ctx context.Context, token string, id int) (domain.Email, error) {
	var email domain.Email
	err := c.getJSON(ctx, idPath(emailsPath, id), nil, token, &email)
	return email, err
}

func (c *Client) ApproveEmail(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodPost, idPath(emailsPath, id, "approve"), token, nil, nil)
}

func (c *Client) RejectEmail(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodPost, idPath(emailsPath, id, "reject"), token, nil, nil)
}

func (c *Client) DeleteEmail(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodPost, idPath(emailsPath, id, "delete_email"), token, nil, nil)
}

// CheckNewEmails asks the backend to pull the mailbox.
func (c *Client) CheckNewEmails(ctx context.Context, token string) error {
	return c.sendJSON(ctx, http.MethodPost, emailsPath+"check_new/", token, nil, nil)
}

type Download struct {
	ContentType string
	Body        []byte
}

// Download fetches a binary resource. Relative urls are resolved against the
// backend; absolute urls must point at the backend host so the token never
// leaves it.
func (c *Client) Download(ctx context.Context, token, rawURL string) (Download, error) {
	target, err := c.sameOrigin(rawURL)
	if err != nil {
		return Download{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Download{}, err
	}
	c.decorate(ctx, req, token)
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return Download{}, transportError(err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, c.maxDownload)
	if err != nil {
		return Download{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Download{}, parseAPIError(resp.StatusCode, body)
	}
	if len(body) == 0 {
		return Download{}, ErrEmptyBody
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return Download{ContentType: contentType, Body: body}, nil
}

func (c *Client) sameOrigin(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("attachment url: %w", err)
	}
	if !u.IsAbs() {
		if u.Host != "" {
			return "", ErrForeignURL
		}
		return c.base.ResolveReference(u).String(), nil
	}
	if !strings.EqualFold(u.Scheme, c.base.Scheme) || !strings.EqualFold(u.Host, c.base.Host) {
		return "", errors.Join(ErrForeignURL, fmt.Errorf("host %q", u.Host))
	}
	return u.String(), nil
}
