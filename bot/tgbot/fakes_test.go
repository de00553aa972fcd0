package tgbot

import (
	"sync"
	"time"

	"github.com/goserg/clubsite/bot/botstorage"
	"github.com/goserg/clubsite/bot/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeStorage struct {
	users    map[int64]model.User
	notified []model.NotifiedEmail
	logs     []string
}

var _ botstorage.BotStorage = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: make(map[int64]model.User)}
}

func (f *fakeStorage) NewUser(user model.User) (model.User, error) {
	if user.Role == 0 {
		user.Role = model.RoleUser
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStorage) GetUser(id int64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, botstorage.ErrNotFound
	}
	return u, nil
}

func (f *fakeStorage) ListUsers() ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStorage) UpdateUserRole(user model.User) error {
	u := f.users[user.ID]
	u.Role = user.Role
	f.users[user.ID] = u
	return nil
}

func (f *fakeStorage) Subscribe(user model.User, event model.EventType) error {
	u := f.users[user.ID]
	if !u.Subscribed(event) {
		u.Subscriptions = append(u.Subscriptions, event)
	}
	f.users[user.ID] = u
	return nil
}

func (f *fakeStorage) Unsubscribe(user model.User, event model.EventType) error {
	u := f.users[user.ID]
	var keep []model.EventType
	for _, e := range u.Subscriptions {
		if e != event {
			keep = append(keep, e)
		}
	}
	u.Subscriptions = keep
	f.users[user.ID] = u
	return nil
}

func (f *fakeStorage) Log(_ model.User, msg string) error {
	f.logs = append(f.logs, msg)
	return nil
}

func (f *fakeStorage) Unnotified(ids []int) ([]int, error) {
	var out []int
	for _, id := range ids {
		found := false
		for _, n := range f.notified {
			if n.EmailID == id {
				found = true
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStorage) MarkNotified(e model.NotifiedEmail) error {
	f.notified = append(f.notified, e)
	return nil
}

func (f *fakeStorage) LastNotified() (model.NotifiedEmail, error) {
	if len(f.notified) == 0 {
		return model.NotifiedEmail{}, botstorage.ErrNotFound
	}
	return f.notified[len(f.notified)-1], nil
}

func (f *fakeStorage) CountNotifiedSince(t time.Time) (int, error) {
	n := 0
	for _, e := range f.notified {
		if !e.NotifiedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStorage) Close() error { return nil }

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}
