package web

import (
	"errors"
	"mime"
	"net/url"
	"strconv"

	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/inbox"
	"github.com/goserg/clubsite/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
)

type emailView struct {
	domain.Email
	SafeHTML string
}

func inboxURL(pages, selected int, notice string) string {
	q := url.Values{}
	if pages > 1 {
		q.Set(webpath.EmailPagesParam, strconv.Itoa(pages))
	}
	if selected > 0 {
		q.Set(webpath.EmailSelectedParam, strconv.Itoa(selected))
	}
	if notice != "" {
		q.Set("notice", notice)
	}
	if len(q) == 0 {
		return webpath.Emails
	}
	return webpath.Emails + "?" + q.Encode()
}

func (s *Server) renderInbox(c *fiber.Ctx, l inbox.Listing, selectedID int, notice string) error {
	d := newData("Email approval").
		With("Emails", l.Emails).
		With("Total", l.Total).
		With("Pages", l.Pages).
		With("HasMore", l.HasMore).
		With("MoreURL", inboxURL(l.Pages+1, selectedID, "")).
		WithNotice(notice)
	for _, e := range l.Emails {
		if e.ID != selectedID {
			continue
		}
		v := emailView{Email: e}
		if e.HTMLContent != nil {
			v.SafeHTML = inbox.SanitizeHTML(*e.HTMLContent)
		}
		d = d.With("Selected", v)
		break
	}
	return s.render(c, "emails", d)
}

func (s *Server) handleEmails(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	pages := c.QueryInt(webpath.EmailPagesParam, 1)
	selected := c.QueryInt(webpath.EmailSelectedParam, 0)
	l, err := s.inbox.Load(c.UserContext(), sess.Token(), sess.User, pages)
	if err != nil {
		return s.backendFailure(c, err)
	}
	return s.renderInbox(c, l, selected, c.Query("notice"))
}

func (s *Server) handleEmailsCheckNew(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	_, err := s.inbox.CheckNew(c.UserContext(), sess.Token(), sess.User)
	if err != nil {
		if isAuthFailure(err) {
			return s.backendFailure(c, err)
		}
		s.log.WithError(err).Warn("check new emails")
		return c.Redirect(inboxURL(1, 0, "Failed to check for new emails. Please try again."))
	}
	return c.Redirect(inboxURL(1, 0, msgEmailsChecked))
}

type emailOp func(c *fiber.Ctx, e domain.Email) error

func (s *Server) emailAction(act emailOp, done string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		sess := sessionFrom(c)
		pages := c.QueryInt(webpath.EmailPagesParam, 1)

		e, err := s.inbox.Get(c.UserContext(), sess.Token(), sess.User, id)
		if errors.Is(err, inbox.ErrNotFound) {
			return c.Redirect(inboxURL(pages, 0, "Email not found. It may have been removed."))
		}
		if err != nil {
			return s.backendFailure(c, err)
		}
		err = act(c, e)
		switch {
		case errors.Is(err, inbox.ErrNotPending):
			return c.Redirect(inboxURL(pages, id, msgEmailNotPending))
		case errors.Is(err, inbox.ErrNotAllowed):
			return s.notFound(c)
		case isGone(err):
			return c.Redirect(inboxURL(pages, 0, "Email not found. It may have been removed."))
		case err != nil:
			return s.backendFailure(c, err)
		}
		selected := id
		if done == "deleted" {
			selected = 0
		}
		return c.Redirect(inboxURL(pages, selected, "Email "+done+"."))
	}
}

func (s *Server) approveEmail(c *fiber.Ctx, e domain.Email) error {
	sess := sessionFrom(c)
	return s.inbox.Approve(c.UserContext(), sess.Token(), sess.User, e)
}

func (s *Server) rejectEmail(c *fiber.Ctx, e domain.Email) error {
	sess := sessionFrom(c)
	return s.inbox.Reject(c.UserContext(), sess.Token(), sess.User, e)
}

func (s *Server) deleteEmail(c *fiber.Ctx, e domain.Email) error {
	sess := sessionFrom(c)
	return s.inbox.Delete(c.UserContext(), sess.Token(), sess.User, e)
}

func (s *Server) handleEmailAttachment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(c.Params("n"))
	if err != nil {
		return fiber.ErrNotFound
	}
	sess := sessionFrom(c)
	f, err := s.inbox.Download(c.UserContext(), sess.Token(), sess.User, id, n)
	if err != nil {
		if backend.IsUnauthorized(err) {
			return s.backendFailure(c, err)
		}
		return c.Redirect(inboxURL(1, id, inbox.DownloadMessage(err)))
	}
	c.Set(fiber.HeaderContentType, f.ContentType)
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentDisposition, disposition)
	return c.Send(f.Body)
}
