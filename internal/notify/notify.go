// Package notify announces emails waiting for moderation to subscribed
// Telegram chats.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	botmodel "github.com/goserg/clubsite/bot/model"
	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/inbox"

	"github.com/sirupsen/logrus"
)

type Store interface {
	Unnotified(emailIDs []int) ([]int, error)
	MarkNotified(email botmodel.NotifiedEmail) error
}

type Broadcaster interface {
	Notify(ctx context.Context, event botmodel.EventType, text string) int
}

type Notifier struct {
	mu    sync.Mutex
	store Store
	out   Broadcaster
	log   *logrus.Entry
	now   func() time.Time
}

var _ inbox.CheckHook = (*Notifier)(nil)

func New(store Store, out Broadcaster, l *logrus.Logger) *Notifier {
	return &Notifier{
		store: store,
		out:   out,
		log:   l.WithField("name", "notify"),
		now:   time.Now,
	}
}

// EmailsChecked announces every pending email not announced before. Each
// email is announced at most once, even when nobody is subscribed yet.
func (n *Notifier) EmailsChecked(ctx context.Context, emails []domain.Email) {
	n.mu.Lock()
	defer n.mu.Unlock()

	pending := make(map[int]domain.Email)
	var ids []int
	for _, e := range emails {
		if e.Status != domain.StatusPending {
			continue
		}
		if _, dup := pending[e.ID]; dup {
			continue
		}
		pending[e.ID] = e
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return
	}
	fresh, err := n.store.Unnotified(ids)
	if err != nil {
		n.log.WithError(err).Error("load notified emails")
		return
	}
	for _, id := range fresh {
		e := pending[id]
		sent := n.out.Notify(ctx, botmodel.NewEmail, Message(e))
		err := n.store.MarkNotified(botmodel.NotifiedEmail{
			EmailID:    e.ID,
			Subject:    e.Subject,
			NotifiedAt: n.now(),
		})
		if err != nil {
			n.log.WithError(err).WithField("email", e.ID).Error("mark notified")
			continue
		}
		n.log.WithField("email", e.ID).WithField("chats", sent).Info("announced")
	}
}

func Message(e domain.Email) string {
	var b strings.Builder
	b.WriteString("New email awaiting approval\n")
	fmt.Fprintf(&b, "From: %s\n", e.SenderEmail)
	fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
	if e.HasAttachments {
		fmt.Fprintf(&b, "Attachments: %d\n", len(e.Attachments))
	}
	if p := strings.TrimSpace(inbox.Preview(e.Content)); p != "" {
		b.WriteString("\n")
		b.WriteString(p)
	}
	return b.String()
}
