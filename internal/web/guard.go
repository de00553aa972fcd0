package web

import (
	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/session"
	"github.com/goserg/clubsite/internal/web/webpath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofiber/fiber/v2"
)

type Decision int

const (
	Allow Decision = iota
	ShowLoading
	RedirectLogin
	ShowNotFound
)

// Decide is the guard state machine. allowed nil means any signed-in user.
func Decide(s session.Session, allowed mapset.Set[domain.Role]) Decision {
	switch s.Status {
	case session.StatusLoading:
		return ShowLoading
	case session.StatusSignedOut:
		if allowed == nil {
			return RedirectLogin
		}
		return ShowNotFound
	}
	if allowed != nil && !allowed.Contains(s.Role()) {
		return ShowNotFound
	}
	return Allow
}

const loadingRefresh = "1"

func (s *Server) guard(allowed mapset.Set[domain.Role]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionFrom(c)
		switch Decide(sess, allowed) {
		case ShowLoading:
			c.Set("Refresh", loadingRefresh)
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Render("loading", newData("Loading").WithSession(sess), "layouts/main")
		case RedirectLogin:
			return c.Redirect(webpath.Login)
		case ShowNotFound:
			return s.notFound(c)
		}
		return c.Next()
	}
}

// requireAuth lets through any signed-in user.
func (s *Server) requireAuth() fiber.Handler {
	return s.guard(nil)
}

func (s *Server) requireRoles(roles mapset.Set[domain.Role]) fiber.Handler {
	return s.guard(roles)
}

func (s *Server) notFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return c.Render("notfound", newData("Not found").WithSession(sessionFrom(c)), "layouts/main")
}
