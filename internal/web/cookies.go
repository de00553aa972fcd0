package web

import (
	"time"

	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	cookieToken   = "token"
	cookieRefresh = "refresh"
)

func (s *Server) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.Auth.CookieDomain,
		Expires:  expires,
		Secure:   s.cfg.Auth.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// setTokens stores both tokens. Cookies live as long as the refresh token so
// an expired access token can still be renewed.
func (s *Server) setTokens(c *fiber.Ctx, t backend.Tokens) {
	expires, ok := session.Expiry(t.Refresh)
	if !ok {
		expires, _ = session.Expiry(t.Access)
	}
	c.Cookie(s.cookie(cookieToken, t.Access, expires))
	if t.Refresh != "" {
		c.Cookie(s.cookie(cookieRefresh, t.Refresh, expires))
	}
}

func (s *Server) clearTokens(c *fiber.Ctx) {
	past := time.Unix(0, 0)
	c.Cookie(s.cookie(cookieToken, "", past))
	c.Cookie(s.cookie(cookieRefresh, "", past))
}
