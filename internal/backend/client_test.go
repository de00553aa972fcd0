package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goserg/clubsite/internal/config"
	"github.com/goserg/clubsite/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	l := logrus.New()
	l.SetOutput(io.Discard)
	c, err := New(config.Backend{
		BaseURL: srv.URL,
		Timeout: config.Duration{Duration: 2 * time.Second},
	}, l)
	require.NoError(t, err)
	return c, srv
}

func TestNew_rejectsBadScheme(t *testing.T) {
	_, err := New(config.Backend{BaseURL: "ftp://example.com"}, logrus.New())
	assert.Error(t, err)
}

func TestClient_sendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotID string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/profile/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(domain.User{ID: 7, Email: "a@yale.edu", Role: domain.RoleBoard})
	}))
	ctx := WithRequestID(context.Background(), "req-1")
	user, err := c.Profile(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, domain.RoleBoard, user.Role)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "req-1", gotID)
}

func TestClient_publicCallsSendNoToken(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id": 1, "role": "PRESIDENT"}]`))
	}))
	team, err := c.Team(context.Background())
	require.NoError(t, err)
	assert.Len(t, team, 1)
}

func TestClient_followsPages(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			_, _ = io.WriteString(w, `{"count": 3, "next": "`+srvURL+`/api/subscribers/?page=2", "previous": null, "results": [{"id": 1}, {"id": 2}]}`)
		case "2":
			_, _ = io.WriteString(w, `{"count": 3, "next": null, "previous": "x", "results": [{"id": 3}]}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	srvURL = srv.URL
	subs, err := c.ListSubscribers(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, 3, subs[2].ID)
}

func TestClient_validationError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body domain.Subscription
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dup@yale.edu", body.Email)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"email": ["mailing list subscriber with this email already exists."]}`)
	}))
	_, err := c.Subscribe(context.Background(), domain.Subscription{Email: "  dup@yale.edu ", FirstName: "A", LastName: "B"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "mailing list subscriber with this email already exists.", Message(err, ""))
}

func TestClient_networkError(t *testing.T) {
	c, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()
	_, err := c.ListEvents(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestClient_timeout(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListEvents(ctx, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_createEventMultipart(t *testing.T) {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	capacity := 40
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Mixer", r.FormValue("title"))
		assert.Equal(t, "2026-05-01T18:00:00Z", r.FormValue("start_date"))
		assert.Equal(t, "", r.FormValue("end_date"))
		assert.Equal(t, "40", r.FormValue("capacity"))
		assert.Equal(t, "SOCIAL", r.FormValue("category"))
		assert.Equal(t, "true", r.FormValue("is_active"))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 11, "title": "Mixer", "start_date": "2026-05-01T18:00:00Z", "category": "SOCIAL"}`)
	}))
	event, err := c.CreateEvent(context.Background(), "tok", domain.EventInput{
		Title:     "Mixer",
		StartDate: start,
		Category:  domain.CategorySocial,
		Capacity:  &capacity,
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, event.ID)
	assert.True(t, event.StartDate.Equal(start))
}

func TestClient_emailActions(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, `{"status": "success"}`)
	}))
	ctx := context.Background()
	require.NoError(t, c.ApproveEmail(ctx, "tok", 3))
	require.NoError(t, c.RejectEmail(ctx, "tok", 4))
	require.NoError(t, c.DeleteEmail(ctx, "tok", 5))
	require.NoError(t, c.CheckNewEmails(ctx, "tok"))
	assert.Equal(t, []string{
		"/api/emails/3/approve/",
		"/api/emails/4/reject/",
		"/api/emails/5/delete_email/",
		"/api/emails/check_new/",
	}, paths)
}

func TestClient_Download(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/emails/1/attachment/a/":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		case "/api/emails/1/attachment/empty/":
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	d, err := c.Download(ctx, "tok", srv.URL+"/api/emails/1/attachment/a/")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "%PDF-1.4", string(d.Body))

	d, err = c.Download(ctx, "tok", "/api/emails/1/attachment/a/")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(d.Body))

	_, err = c.Download(ctx, "tok", "/api/emails/1/attachment/empty/")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = c.Download(ctx, "tok", "/api/emails/1/attachment/gone/")
	assert.True(t, IsNotFound(err))

	_, err = c.Download(ctx, "tok", "https://evil.example.com/steal")
	assert.ErrorIs(t, err, ErrForeignURL)

	_, err = c.Download(ctx, "tok", "//evil.example.com/steal")
	assert.ErrorIs(t, err, ErrForeignURL)
}

func TestClient_tooLarge(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/media/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 17)))
		case "/media/fits":
			_, _ = w.Write([]byte(strings.Repeat("x", 16)))
		default:
			_, _ = io.WriteString(w, `{"id": 1, "username": "`+strings.Repeat("u", 64)+`"}`)
		}
	}))
	c.maxDownload = 16
	c.maxBody = 32
	ctx := context.Background()

	_, err := c.Download(ctx, "tok", "/media/big")
	assert.ErrorIs(t, err, ErrTooLarge)

	d, err := c.Download(ctx, "tok", "/media/fits")
	require.NoError(t, err)
	assert.Len(t, d.Body, 16)

	_, err = c.Profile(ctx, "tok")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestClient_attachmentShapes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count": 2, "next": null, "previous": null, "results": [
			{"id": 1, "has_attachments": true, "attachments": [
				{"id": 7, "filename": "agenda.pdf", "size": 2048, "content_type": "application/pdf", "url": "/media/7"}]},
			{"id": 2, "has_attachments": true, "attachments": [
				{"filename": "minutes.txt", "size": 10, "content_type": "text/plain", "url": "/media/minutes.txt"}]}
		]}`)
	}))

	page, err := c.ListEmails(context.Background(), "tok", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "/media/7", page.Results[0].Attachments[0].URL)
	assert.Equal(t, "agenda.pdf", page.Results[0].Attachments[0].Filename)
	assert.Equal(t, "/media/minutes.txt", page.Results[1].Attachments[0].URL)
}
