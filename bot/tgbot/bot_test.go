package tgbot

import (
	"context"
	"testing"
	"time"

	"github.com/goserg/clubsite/bot/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBot(t *testing.T, bs *fakeStorage) (*Bot, *fakeSender) {
	t.Helper()
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	s := &fakeSender{}
	b, err := newBot(s, bs, "secret", l)
	require.NoError(t, err)
	return b, s
}

func command(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID, FirstName: "Ana", UserName: "ana"},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: cmdLen},
		},
	}}
}

func lastText(s *fakeSender) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].Text
}

func TestBot_subscribeFlow(t *testing.T) {
	bs := newFakeStorage()
	b, s := testBot(t, bs)

	b.handleMessage(command(10, "/sub wrong"))
	assert.Equal(t, ErrWrongPassword.Error(), lastText(s))
	assert.Empty(t, b.subs.GetUserIDs(model.NewEmail))

	b.handleMessage(command(10, "/unsub"))
	assert.Equal(t, ErrBadRequest.Error(), lastText(s))

	b.handleMessage(command(10, "/sub secret"))
	assert.Contains(t, lastText(s), "Subscribed")
	assert.Equal(t, []int64{10}, b.subs.GetUserIDs(model.NewEmail))
	assert.Equal(t, model.UserRole(model.RoleModerator), bs.users[10].Role)

	b.handleMessage(command(10, "/status"))
	assert.Contains(t, lastText(s), "You are subscribed")
	assert.Contains(t, lastText(s), "No emails announced yet.")

	b.handleMessage(command(10, "/unsub"))
	assert.Contains(t, lastText(s), "Unsubscribed")
	assert.Empty(t, b.subs.GetUserIDs(model.NewEmail))

	assert.NotContains(t, bs.logs, "/sub secret")
	assert.Contains(t, bs.logs, "/sub")
}

func TestBot_help(t *testing.T) {
	bs := newFakeStorage()
	b, s := testBot(t, bs)

	b.handleMessage(command(11, "/help"))
	text := lastText(s)
	assert.Contains(t, text, "/sub")
	assert.Contains(t, text, "/status")
	assert.NotContains(t, text, "/unsub")

	b.handleMessage(command(11, "/help sub"))
	assert.Equal(t, (&SubCommand{}).Help(), lastText(s))

	b.handleMessage(command(11, "/nope"))
	assert.Equal(t, ErrBadRequest.Error(), lastText(s))
}

func TestBot_restoresSubscriptionsAndNotifies(t *testing.T) {
	bs := newFakeStorage()
	bs.users[1] = model.User{ID: 1, Role: model.RoleModerator, Subscriptions: []model.EventType{model.NewEmail}}
	bs.users[2] = model.User{ID: 2, Role: model.RoleUser}
	b, s := testBot(t, bs)

	n := b.Notify(context.Background(), model.NewEmail, "hello")
	assert.Equal(t, 1, n)
	require.Len(t, s.sent, 1)
	assert.EqualValues(t, 1, s.sent[0].ChatID)
	assert.Equal(t, "hello", s.sent[0].Text)
}

func TestStatusCommand(t *testing.T) {
	bs := newFakeStorage()
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	bs.notified = []model.NotifiedEmail{
		{EmailID: 1, Subject: "old", NotifiedAt: now.Add(-48 * time.Hour)},
		{EmailID: 2, Subject: "Spring trip", NotifiedAt: now.Add(-time.Hour)},
	}
	c := &StatusCommand{botStorage: bs, now: func() time.Time { return now }}
	text, err := c.Run(model.User{Role: model.RoleUser}, "")
	require.NoError(t, err)
	assert.Contains(t, text, "not subscribed")
	assert.Contains(t, text, "last 24h: 1")
	assert.Contains(t, text, `"Spring trip"`)
}
