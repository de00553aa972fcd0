package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goserg/clubsite/internal/config"
	"github.com/goserg/clubsite/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	maxBodySize     = 4 << 20
	maxDownloadSize = 32 << 20
	// maxPages bounds how many pages a full collection fetch follows.
	maxPages = 50
)

type Client struct {
	base            *url.URL
	http            *http.Client
	timeout         time.Duration
	downloadTimeout time.Duration
	maxBody         int64
	maxDownload     int64
	log             *logrus.Entry
}

func New(cfg config.Backend, l *logrus.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url: unsupported scheme %q", base.Scheme)
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	downloadTimeout := cfg.DownloadTimeout.Duration
	if downloadTimeout <= 0 {
		downloadTimeout = 30 * time.Second
	}
	return &Client{
		base:            base,
		http:            &http.Client{},
		timeout:         timeout,
		downloadTimeout: downloadTimeout,
		maxBody:         maxBodySize,
		maxDownload:     maxDownloadSize,
		log:             l.WithField("name", "backend"),
	}, nil
}

type requestIDKey struct{}

// WithRequestID attaches the id forwarded as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func (c *Client) resolve(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimLeft(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, r.method, c.resolve(r.path, r.query), r.body)
	if err != nil {
		return err
	}
	c.decorate(ctx, req, r.token)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, c.maxBody)
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"status":     resp.StatusCode,
		"duration":   time.Since(start),
		"request_id": requestID(ctx),
	}).Debug("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func (c *Client) decorate(ctx context.Context, req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
}

// readLimited reads all of r, failing with ErrTooLarge instead of truncating
// once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, transportError(err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}
	return body, nil
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, in, out any) error {
	r := request{method: method, path: path, token: token}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		r.body = bytes.NewReader(data)
		r.contentType = "application/json"
	}
	return c.do(ctx, r, out)
}

// formField is one multipart field; order is preserved on the wire.
type formField struct {
	name  string
	value string
}

func (c *Client) sendForm(ctx context.Context, method, path, token string, fields []formField, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		token:       token,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, out)
}

// decodeCollection accepts both a page envelope and a bare JSON array.
func decodeCollection[T any](raw json.RawMessage) (domain.Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return domain.Page[T]{}, err
		}
		return domain.Page[T]{Count: len(items), Results: items}, nil
	}
	var page domain.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return domain.Page[T]{}, err
	}
	return page, nil
}

func fetchPage[T any](ctx context.Context, c *Client, path string, page int, token string) (domain.Page[T], error) {
	var query url.Values
	if page > 1 {
		query = url.Values{"page": []string{strconv.Itoa(page)}}
	}
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, query, token, &raw); err != nil {
		return domain.Page[T]{}, err
	}
	p, err := decodeCollection[T](raw)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// fetchAll follows pages until the collection is exhausted.
func fetchAll[T any](ctx context.Context, c *Client, path string, token string) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		p, err := fetchPage[T](ctx, c, path, page, token)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if !p.HasNext() {
			break
		}
	}
	return all, nil
}

func idPath(prefix string, id int, suffix ...string) string {
	p := prefix + strconv.Itoa(id) + "/"
	for _, s := range suffix {
		p += s + "/"
	}
	return p
}
