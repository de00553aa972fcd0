package web

import (
	"bytes"
	"sort"

	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/events"

	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const homeUpcoming = 3

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	ugc      = bluemonday.UGCPolicy()
)

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugc.Sanitize(buf.String()), nil
}

func (s *Server) homeData(c *fiber.Ctx) data {
	sess := sessionFrom(c)
	d := newData("Home")
	all, err := s.api.ListEvents(c.UserContext(), sess.Token())
	if err != nil {
		s.log.WithError(err).Warn("home: list events")
		return d.With("EventsError", "Could not load events.")
	}
	return d.With("Upcoming", events.Split(all, s.now(), sess.Role()).Next(homeUpcoming))
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	return s.render(c, "index", s.homeData(c))
}

func (s *Server) handleSubscribe(c *fiber.Ctx) error {
	sub := domain.Subscription{
		Email:     c.FormValue("email"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
	}.Trimmed()
	d := s.homeData(c)
	if _, err := s.api.Subscribe(c.UserContext(), sub); err != nil {
		s.log.WithError(err).Info("subscribe failed")
		return s.render(c, "index", d.With("Form", sub).With("SubscribeError", subscribeMessage(err)))
	}
	return s.render(c, "index", d.With("Subscribed", msgSubscribed))
}

func (s *Server) handleEvents(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	all, err := s.api.ListEvents(c.UserContext(), sess.Token())
	if err != nil {
		return s.backendFailure(c, err)
	}
	p := events.Split(all, s.now(), sess.Role())
	return s.render(c, "events", newData("Events").
		With("Upcoming", p.Upcoming).
		With("Past", p.Past).
		With("CanEdit", sess.Role().IsPrivileged()))
}

type renderedArticle struct {
	domain.Article
	HTML string
}

func (s *Server) handleArticles(c *fiber.Ctx) error {
	list, err := s.api.ListArticles(c.UserContext(), sessionFrom(c).Token())
	if err != nil {
		return s.backendFailure(c, err)
	}
	out := make([]renderedArticle, 0, len(list))
	for _, a := range list {
		if !a.IsPublished {
			continue
		}
		body, err := renderMarkdown(a.Content)
		if err != nil {
			s.log.WithError(err).WithField("article", a.ID).Warn("render markdown")
			continue
		}
		out = append(out, renderedArticle{Article: a, HTML: body})
	}
	return s.render(c, "articles", newData("Articles").With("Articles", out))
}

// teamOrder drops admins and puts the president first, then main members.
func teamOrder(members []domain.User) []domain.User {
	out := make([]domain.User, 0, len(members))
	for _, m := range members {
		if m.Role == domain.RoleAdmin {
			continue
		}
		out = append(out, m)
	}
	rank := func(u domain.User) int {
		switch {
		case u.Role == domain.RolePresident:
			return 0
		case u.IsMain:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}

func (s *Server) handleTeam(c *fiber.Ctx) error {
	members, err := s.api.Team(c.UserContext())
	if err != nil {
		return s.backendFailure(c, err)
	}
	return s.render(c, "team", newData("Team").With("Members", teamOrder(members)))
}
