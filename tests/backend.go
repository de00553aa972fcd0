//go:build e2e

package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-pass"
	adminToken    = "e2e-admin-token"
	takenEmail    = "taken@club.org"
	duplicateMsg  = "mailing list subscriber with this email already exists."
)

// fakeBackend stands in for the REST api the site talks to.
type fakeBackend struct {
	mu     sync.Mutex
	checks int
}

func (f *fakeBackend) CheckCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	signedIn := r.Header.Get("Authorization") == "Bearer "+adminToken
	now := time.Now()

	switch {
	case r.URL.Path == "/auth/login/":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != adminUsername || creds["password"] != adminPassword {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		reply(w, http.StatusOK, map[string]string{"access": adminToken})
	case r.URL.Path == "/auth/profile/":
		if !signedIn {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"id": 1, "username": adminUsername, "email": "admin@club.org", "role": "ADMIN"})
	case r.URL.Path == "/auth/team/":
		reply(w, http.StatusOK, []map[string]any{{"id": 2, "username": "pres", "first_name": "Pat", "role": "PRESIDENT"}})
	case r.URL.Path == "/api/articles/":
		reply(w, http.StatusOK, []map[string]any{{"id": 1, "title": "Welcome", "content": "**hello**", "is_published": true}})
	case r.URL.Path == "/api/events/":
		reply(w, http.StatusOK, []map[string]any{
			{"id": 1, "title": "Spring Gala", "start_date": now.Add(48 * time.Hour), "is_active": true, "category": "SOCIAL"},
			{"id": 2, "title": "Winter Talk", "start_date": now.Add(-48 * time.Hour), "is_active": true, "category": "SEMINAR"},
		})
	case r.URL.Path == "/api/subscribers/" && r.Method == http.MethodPost:
		var sub map[string]string
		_ = json.NewDecoder(r.Body).Decode(&sub)
		if strings.EqualFold(sub["email"], takenEmail) {
			reply(w, http.StatusBadRequest, map[string][]string{"email": {duplicateMsg}})
			return
		}
		reply(w, http.StatusCreated, sub)
	case r.URL.Path == "/api/emails/check_new/":
		f.mu.Lock()
		f.checks++
		f.mu.Unlock()
		reply(w, http.StatusOK, map[string]string{"message": "checked"})
	case r.URL.Path == "/api/emails/":
		reply(w, http.StatusOK, map[string]any{
			"count": 1, "next": nil, "previous": nil,
			"results": []map[string]any{{
				"id": 7, "sender_email": "board@club.org", "subject": "Meeting notes",
				"content": "See you Friday", "received_at": now, "status": "PENDING", "status_display": "Pending",
			}},
		})
	default:
		reply(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}
