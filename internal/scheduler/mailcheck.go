package scheduler

import (
	"context"
	"errors"

	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/inbox"
	"github.com/goserg/clubsite/internal/session"
)

var ErrNoServiceAccount = errors.New("service account is not configured")

type Authenticator interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	Logout(s session.Session)
}

type Checker interface {
	CheckNew(ctx context.Context, token string, viewer domain.User) (inbox.Listing, error)
}

// MailCheck signs in with the service account and pulls the mailbox. The
// inbox hooks take care of notifications.
func MailCheck(auth Authenticator, mail Checker, username, password string) Job {
	return func(ctx context.Context) error {
		if username == "" || password == "" {
			return ErrNoServiceAccount
		}
		sess, err := auth.Login(ctx, username, password)
		if err != nil {
			return err
		}
		defer auth.Logout(sess)
		_, err = mail.CheckNew(ctx, sess.Token(), sess.User)
		return err
	}
}
