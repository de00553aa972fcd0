package web

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/goserg/clubsite/internal/backend"

	"github.com/stretchr/testify/assert"
)

func Test_subscribeMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "duplicate email",
			err: &backend.APIError{Status: http.StatusBadRequest, Fields: []backend.FieldError{
				{Field: "first_name", Messages: []string{"too long"}},
				{Field: "email", Messages: []string{"mailing list subscriber with this email already exists."}},
			}},
			want: "mailing list subscriber with this email already exists.",
		},
		{
			name: "detail",
			err:  &backend.APIError{Status: http.StatusForbidden, Detail: "Not allowed."},
			want: "Not allowed.",
		},
		{
			name: "not found",
			err:  &backend.APIError{Status: http.StatusNotFound},
			want: msgSubscribeGone,
		},
		{
			name: "first field",
			err: &backend.APIError{Status: http.StatusBadRequest, Fields: []backend.FieldError{
				{Field: "last_name", Messages: []string{"This field is required."}},
			}},
			want: "This field is required.",
		},
		{
			name: "bare 400",
			err:  &backend.APIError{Status: http.StatusBadRequest},
			want: msgSubscribeCheck,
		},
		{
			name: "network",
			err:  fmt.Errorf("post: %w", backend.ErrUnavailable),
			want: msgSubscribeNetwork,
		},
		{
			name: "server error",
			err:  &backend.APIError{Status: http.StatusInternalServerError},
			want: msgSubscribeFailed,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, subscribeMessage(tt.err))
		})
	}
}

func Test_validationLines(t *testing.T) {
	err := &backend.APIError{Status: http.StatusBadRequest, Fields: []backend.FieldError{
		{Field: "email", Messages: []string{"invalid", "taken"}},
		{Field: "username", Messages: []string{"required"}},
	}}
	assert.Equal(t, []string{"email: invalid,taken", "username: required"}, validationLines(err))
	assert.Equal(t, []string{backend.MsgUnavailable}, validationLines(backend.ErrTimeout))
}
