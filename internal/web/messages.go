package web

import (
	"errors"
	"net/http"

	"github.com/goserg/clubsite/internal/backend"
)

const (
	msgSubscribed          = "Thank you for subscribing!"
	msgSubscribeGone       = "The subscription service is currently unavailable."
	msgSubscribeCheck      = "Please check your information and try again."
	msgSubscribeNetwork    = "Network error. Please check your connection and try again."
	msgSubscribeFailed     = "Failed to subscribe. Please try again later."
	msgSubscriberGone      = "Subscriber not found. The page will refresh to show current data."
	msgSubscriberInvalidID = "Error: Invalid subscriber ID"
	msgLoginThrottled      = "Too many login attempts. Please wait a moment and try again."
	msgLoginInvalid        = "Invalid username or password."
	msgEmailNotPending     = "Only pending emails can be approved or rejected."
	msgEmailsChecked       = "Checked for new emails."
)

func subscribeMessage(err error) string {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		if backend.IsNetwork(err) {
			return msgSubscribeNetwork
		}
		return msgSubscribeFailed
	}
	if msgs := apiErr.Field("email"); len(msgs) > 0 {
		return msgs[0]
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	switch apiErr.Status {
	case http.StatusNotFound:
		return msgSubscribeGone
	case http.StatusBadRequest:
		if msg := apiErr.FirstMessage(); msg != "" {
			return msg
		}
		return msgSubscribeCheck
	}
	return msgSubscribeFailed
}

// validationLines renders a backend validation error as "field: a,b" lines.
func validationLines(err error) []string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		if lines := apiErr.Lines(); len(lines) > 0 {
			return lines
		}
	}
	return []string{backend.Message(err, "Failed to save changes. Please try again.")}
}
