package session

import (
	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/domain"
)

type Status int

const (
	// StatusLoading means the identity behind a stored token is still being
	// resolved.
	StatusLoading Status = iota
	StatusSignedIn
	StatusSignedOut
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSignedIn:
		return "signed_in"
	case StatusSignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

type Session struct {
	Status Status
	User   domain.User
	Tokens backend.Tokens
}

func SignedOut() Session {
	return Session{Status: StatusSignedOut}
}

func (s Session) SignedIn() bool {
	return s.Status == StatusSignedIn
}

// Role is the signed-in role, RoleMember otherwise.
func (s Session) Role() domain.Role {
	if !s.SignedIn() {
		return domain.RoleMember
	}
	return s.User.Role.Normalize()
}

func (s Session) Token() string {
	return s.Tokens.Access
}
