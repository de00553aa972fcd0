package botstorage

import (
	"errors"
	"time"

	"github.com/goserg/clubsite/bot/model"
)

var ErrNotFound = errors.New("not found")

type BotStorage interface {
	NewUser(user model.User) (model.User, error)
	GetUser(id int64) (model.User, error)
	ListUsers() ([]model.User, error)
	UpdateUserRole(user model.User) error
	Subscribe(user model.User, event model.EventType) error
	Unsubscribe(user model.User, event model.EventType) error
	Log(user model.User, msg string) error

	// Unnotified returns the ids from emailIDs that were never announced.
	Unnotified(emailIDs []int) ([]int, error)
	MarkNotified(email model.NotifiedEmail) error
	LastNotified() (model.NotifiedEmail, error)
	CountNotifiedSince(t time.Time) (int, error)

	Close() error
}
