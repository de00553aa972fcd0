package session

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Expiry reads the exp claim without verifying the signature; verification
// belongs to the backend. Opaque tokens report ok == false.
func Expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.ExpiresAt, 0), true
}

func expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Before(exp)
}
