package domain

import (
	"strings"
	"time"
)

type Subscriber struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	University   string    `json:"university"`
	Interests    string    `json:"interests"`
	IsStudent    bool      `json:"is_student"`
	SubscribedAt time.Time `json:"subscribed_at"`
	IsActive     bool      `json:"is_active"`
}

func (s Subscriber) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type Subscription struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Trimmed returns the subscription with surrounding whitespace removed.
func (s Subscription) Trimmed() Subscription {
	return Subscription{
		Email:     strings.TrimSpace(s.Email),
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
	}
}
