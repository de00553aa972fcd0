package web

import (
	"errors"

	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/session"
	"github.com/goserg/clubsite/internal/web/webpath"
)

type data struct {
	Title    string
	Path     map[string]string
	User     domain.User
	SignedIn bool
	Role     domain.Role
	Notice   string
	Errors   []string
	Data     map[string]any
}

func newData(title string) data {
	return data{
		Title: title,
		Path:  webpath.Path(),
		Data:  make(map[string]any),
	}
}

func (m data) WithSession(s session.Session) data {
	m.User = s.User
	m.SignedIn = s.SignedIn()
	m.Role = s.Role()
	return m
}

func (m data) With(key string, value any) data {
	if m.Data == nil {
		m.Data = make(map[string]any)
	}
	m.Data[key] = value
	return m
}

func (m data) WithNotice(msg string) data {
	m.Notice = msg
	return m
}

type multierr interface {
	Unwrap() []error
}

func unwrap(err error) []error {
	var merr multierr
	if errors.As(err, &merr) {
		var errs []error
		for _, err := range merr.Unwrap() {
			errs = append(errs, unwrap(err)...)
		}
		return errs
	}
	return []error{err}
}

func (m data) WithErrors(err error) data {
	if err == nil {
		return m
	}
	for _, err := range unwrap(err) {
		m.Errors = append(m.Errors, err.Error())
	}
	return m
}

// WithMessages appends already formatted messages.
func (m data) WithMessages(msgs ...string) data {
	m.Errors = append(m.Errors, msgs...)
	return m
}
