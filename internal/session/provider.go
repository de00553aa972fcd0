package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/cache/mem"
	"github.com/goserg/clubsite/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrForbidden          = errors.New("access denied")
	ErrNotAuthorized      = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthAPI interface {
	Login(ctx context.Context, username, password string) (backend.Tokens, error)
	Refresh(ctx context.Context, refresh string) (backend.Tokens, error)
	Profile(ctx context.Context, token string) (domain.User, error)
	UpdateProfile(ctx context.Context, token string, patch domain.ProfilePatch) (domain.User, error)
	Register(ctx context.Context, token string, reg domain.Registration) error
}

// Provider owns the signed-in identity. Handlers read sessions from it and
// never build them themselves.
type Provider struct {
	api   AuthAPI
	cache *mem.Cache
	group singleflight.Group
	wait  time.Duration
	now   func() time.Time
	log   *logrus.Entry
}

func NewProvider(api AuthAPI, cache *mem.Cache, wait time.Duration, l *logrus.Logger) *Provider {
	return &Provider{
		api:   api,
		cache: cache,
		wait:  wait,
		now:   time.Now,
		log:   l.WithField("name", "session"),
	}
}

func (p *Provider) Login(ctx context.Context, username, password string) (Session, error) {
	tokens, err := p.api.Login(ctx, username, password)
	if err != nil {
		if backend.IsUnauthorized(err) || backend.IsValidation(err) {
			return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return Session{}, err
	}
	user, err := p.api.Profile(ctx, tokens.Access)
	if err != nil {
		return Session{}, fmt.Errorf("fetch profile: %w", err)
	}
	p.cache.Put(tokens.Access, user)
	p.log.WithField("user_id", user.ID).Info("signed in")
	return Session{Status: StatusSignedIn, User: user, Tokens: tokens}, nil
}

func (p *Provider) Logout(s Session) {
	if s.Tokens.Access != "" {
		p.cache.Delete(s.Tokens.Access)
	}
}

// Register creates a user. Only managers may call it; anyone else is turned
// away before the backend is contacted.
func (p *Provider) Register(ctx context.Context, s Session, reg domain.Registration) error {
	if !s.SignedIn() || s.Token() == "" {
		return ErrNotAuthorized
	}
	if !s.Role().IsManager() {
		return ErrForbidden
	}
	return p.api.Register(ctx, s.Token(), reg)
}

func (p *Provider) UpdateProfile(ctx context.Context, s Session, patch domain.ProfilePatch) (Session, error) {
	if !s.SignedIn() || s.Token() == "" {
		return s, ErrNotAuthorized
	}
	user, err := p.api.UpdateProfile(ctx, s.Token(), patch)
	if err != nil {
		return s, err
	}
	p.cache.Put(s.Token(), user)
	s.User = user
	return s, nil
}

// Resolve turns stored tokens into a session. It never fails: any problem
// with the tokens yields a signed-out session. When the backend is slower
// than the configured wait the session is reported as loading and the
// resolution finishes in the background.
func (p *Provider) Resolve(ctx context.Context, tokens backend.Tokens) Session {
	if tokens.Access == "" && tokens.Refresh == "" {
		return SignedOut()
	}
	if tokens.Access != "" {
		if user, ok := p.cache.Get(tokens.Access); ok {
			return Session{Status: StatusSignedIn, User: user, Tokens: tokens}
		}
	}

	key := "a:" + tokens.Access
	if tokens.Access == "" {
		key = "r:" + tokens.Refresh
	}
	bg := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		return p.resolve(bg, tokens), nil
	})

	var timeout <-chan time.Time
	if p.wait > 0 {
		timer := time.NewTimer(p.wait)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case res := <-ch:
		return res.Val.(Session)
	case <-timeout:
		return Session{Status: StatusLoading, Tokens: tokens}
	case <-ctx.Done():
		return Session{Status: StatusLoading, Tokens: tokens}
	}
}

func (p *Provider) resolve(ctx context.Context, tokens backend.Tokens) Session {
	log := p.log
	refreshed := false
	refresh := func() bool {
		if refreshed || tokens.Refresh == "" || expired(tokens.Refresh, p.now()) {
			return false
		}
		refreshed = true
		next, err := p.api.Refresh(ctx, tokens.Refresh)
		if err != nil {
			log.WithError(err).Debug("token refresh failed")
			return false
		}
		tokens = next
		return true
	}

	if tokens.Access == "" || expired(tokens.Access, p.now()) {
		if !refresh() {
			return SignedOut()
		}
	}
	user, err := p.api.Profile(ctx, tokens.Access)
	if err != nil && backend.IsUnauthorized(err) && refresh() {
		user, err = p.api.Profile(ctx, tokens.Access)
	}
	if err != nil {
		log.WithError(err).Info("stored token rejected, signing out")
		return SignedOut()
	}
	p.cache.Put(tokens.Access, user)
	return Session{Status: StatusSignedIn, User: user, Tokens: tokens}
}
