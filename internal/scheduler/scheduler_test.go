package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/inbox"
	"github.com/goserg/clubsite/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	loggedOut bool
	err       error
}

func (f *fakeAuth) Login(_ context.Context, username, _ string) (session.Session, error) {
	if f.err != nil {
		return session.Session{}, f.err
	}
	return session.Session{
		Status: session.StatusSignedIn,
		User:   domain.User{Username: username, Role: domain.RoleAdmin},
		Tokens: backend.Tokens{Access: "svc-token"},
	}, nil
}

func (f *fakeAuth) Logout(session.Session) { f.loggedOut = true }

type fakeChecker struct {
	token string
	calls int
}

func (f *fakeChecker) CheckNew(_ context.Context, token string, _ domain.User) (inbox.Listing, error) {
	f.calls++
	f.token = token
	return inbox.Listing{}, nil
}

func TestMailCheck(t *testing.T) {
	auth := &fakeAuth{}
	mail := &fakeChecker{}
	require.NoError(t, MailCheck(auth, mail, "svc", "pw")(context.Background()))
	assert.Equal(t, 1, mail.calls)
	assert.Equal(t, "svc-token", mail.token)
	assert.True(t, auth.loggedOut)
}

func TestMailCheck_errors(t *testing.T) {
	mail := &fakeChecker{}
	err := MailCheck(&fakeAuth{}, mail, "", "")(context.Background())
	assert.ErrorIs(t, err, ErrNoServiceAccount)

	boom := errors.New("boom")
	err = MailCheck(&fakeAuth{err: boom}, mail, "svc", "pw")(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, mail.calls)
}

func TestScheduler_Add(t *testing.T) {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	s := New(time.Second, l)
	require.NoError(t, s.Add("*/5 * * * *", "check", func(context.Context) error { return nil }))
	assert.Error(t, s.Add("not a spec", "bad", func(context.Context) error { return nil }))
	assert.Equal(t, 1, s.Len())
	s.Start()
	s.Stop()
}
