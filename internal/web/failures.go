package web

import "github.com/goserg/clubsite/internal/backend"

func isAuthFailure(err error) bool {
	return backend.IsUnauthorized(err) || backend.IsForbidden(err)
}

// isGone reports a 404 on a mutation: the target is already gone and a reload
// shows the current state.
func isGone(err error) bool {
	return backend.IsNotFound(err)
}
