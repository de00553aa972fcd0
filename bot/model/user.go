package model

import "time"

type EventType string

const (
	// NewEmail fires when a message is waiting for moderation.
	NewEmail EventType = "new_email"
)

type UserRole int

const (
	RoleAdmin     = 1
	RoleModerator = 2
	RoleUser      = 3
)

type User struct {
	ID        int64
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Role UserRole

	Subscriptions []EventType
}

func (u User) Subscribed(event EventType) bool {
	for _, s := range u.Subscriptions {
		if s == event {
			return true
		}
	}
	return false
}

// NotifiedEmail records a moderation notice that went out.
type NotifiedEmail struct {
	EmailID    int
	Subject    string
	NotifiedAt time.Time
}
