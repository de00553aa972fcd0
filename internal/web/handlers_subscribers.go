package web

import (
	"strconv"

	"github.com/goserg/clubsite/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) renderSubscribers(c *fiber.Ctx, notice string) error {
	sess := sessionFrom(c)
	list, err := s.api.ListSubscribers(c.UserContext(), sess.Token())
	if err != nil {
		return s.backendFailure(c, err)
	}
	return s.render(c, "subscribers", newData("Subscribers").
		With("Subscribers", list).
		With("CanDelete", sess.Role().IsManager()).
		WithNotice(notice))
}

func (s *Server) handleSubscribers(c *fiber.Ctx) error {
	return s.renderSubscribers(c, c.Query("notice"))
}

func (s *Server) handleSubscriberDelete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		c.Status(fiber.StatusBadRequest)
		return s.renderSubscribers(c, msgSubscriberInvalidID)
	}
	err = s.api.DeleteSubscriber(c.UserContext(), sessionFrom(c).Token(), id)
	switch {
	case isGone(err):
		return s.renderSubscribers(c, msgSubscriberGone)
	case err != nil:
		return s.backendFailure(c, err)
	}
	return c.Redirect(webpath.Subscribers)
}
