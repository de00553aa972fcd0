package notify

import (
	"context"
	"testing"

	botmodel "github.com/goserg/clubsite/bot/model"
	"github.com/goserg/clubsite/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type memStore struct {
	marked []int
}

func (m *memStore) Unnotified(ids []int) ([]int, error) {
	var out []int
	for _, id := range ids {
		seen := false
		for _, d := range m.marked {
			if d == id {
				seen = true
			}
		}
		if !seen {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) MarkNotified(e botmodel.NotifiedEmail) error {
	m.marked = append(m.marked, e.EmailID)
	return nil
}

type recorder struct {
	texts []string
}

func (r *recorder) Notify(_ context.Context, event botmodel.EventType, text string) int {
	if event != botmodel.NewEmail {
		return 0
	}
	r.texts = append(r.texts, text)
	return 1
}

func TestNotifier_EmailsChecked(t *testing.T) {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	store := &memStore{marked: []int{1}}
	out := &recorder{}
	n := New(store, out, l)

	emails := []domain.Email{
		{ID: 1, Status: domain.StatusPending, Subject: "already"},
		{ID: 2, Status: domain.StatusPending, Subject: "Trip", SenderEmail: "ana@club.org"},
		{ID: 3, Status: domain.StatusApproved, Subject: "done"},
		{ID: 2, Status: domain.StatusPending, Subject: "Trip"},
	}
	n.EmailsChecked(context.Background(), emails)
	assert.Equal(t, []int{1, 2}, store.marked)
	if assert.Len(t, out.texts, 1) {
		assert.Contains(t, out.texts[0], "Subject: Trip")
		assert.Contains(t, out.texts[0], "From: ana@club.org")
	}

	n.EmailsChecked(context.Background(), emails)
	assert.Len(t, out.texts, 1)
}

func TestMessage(t *testing.T) {
	msg := Message(domain.Email{
		SenderEmail:    "a@b.c",
		Subject:        "Hi",
		Content:        "Body text",
		HasAttachments: true,
		Attachments:    []domain.Attachment{{Filename: "a.pdf"}, {Filename: "b.pdf"}},
	})
	assert.Equal(t, "New email awaiting approval\nFrom: a@b.c\nSubject: Hi\nAttachments: 2\n\nBody text", msg)
}
