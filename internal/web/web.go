package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	embedded "github.com/goserg/clubsite"
	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/config"
	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/inbox"
	"github.com/goserg/clubsite/internal/session"
	"github.com/goserg/clubsite/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Server struct {
	api      *backend.Client
	sessions *session.Provider
	inbox    *inbox.Inbox
	logins   *throttle
	app      *fiber.App
	cfg      config.Config
	log      *logrus.Entry
	now      func() time.Time
}

func New(cfg config.Config, api *backend.Client, sessions *session.Provider, mail *inbox.Inbox, l *logrus.Logger) (*Server, error) {
	server := Server{
		api:      api,
		sessions: sessions,
		inbox:    mail,
		logins:   newThrottle(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		cfg:      cfg,
		log:      l.WithField("name", "web"),
		now:      time.Now,
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Server.Debug)
	engine.Debug(cfg.Server.Debug)
	engine.AddFunc("FormatDate", formatDate)
	engine.AddFunc("FormatDateTime", formatDateTime)
	engine.AddFunc("FormatReceived", func(t time.Time) string {
		return inbox.FormatReceived(t, server.now())
	})
	engine.AddFunc("Preview", inbox.Preview)
	engine.AddFunc("SafeHTML", func(s string) template.HTML {
		// callers pass sanitised markup only
		return template.HTML(s)
	})
	engine.AddFunc("PathWith", webpath.With)
	engine.AddFunc("dict", dict)
	engine.AddFunc("SiteName", func() string { return cfg.Server.SiteName })

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ErrorHandler:          server.handleError,
		DisableStartupMessage: !cfg.Server.Debug,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(server.logRequests)
	app.Use(server.loadSession)

	server.routes(app)
	app.Use(server.notFound)
	server.app = app
	return &server, nil
}

func (s *Server) routes(app *fiber.App) {
	managers := domain.Managers()
	privileged := domain.Privileged()

	app.Get(webpath.Home, s.handleHome)
	app.Post(webpath.Subscribe, s.handleSubscribe)
	app.Get(webpath.Events, s.handleEvents)
	app.Get(webpath.Articles, s.handleArticles)
	app.Get(webpath.Team, s.handleTeam)

	app.Get(webpath.Login, s.handleLoginGet)
	app.Post(webpath.Login, s.handleLoginPost)
	app.Post(webpath.Logout, s.handleLogout)

	app.Get(webpath.Profile, s.requireAuth(), s.handleProfile)
	app.Get(webpath.ProfileEdit, s.requireAuth(), s.handleProfileEditGet)
	app.Post(webpath.ProfileEdit, s.requireAuth(), s.handleProfileEditPost)
	app.Get(webpath.Register, s.requireAuth(), s.requireRoles(managers), s.handleRegisterGet)
	app.Post(webpath.Register, s.requireAuth(), s.requireRoles(managers), s.handleRegisterPost)

	events := s.requireRoles(privileged)
	app.Get(webpath.EventNew, events, s.handleEventNewGet)
	app.Post(webpath.EventNew, events, s.handleEventNewPost)
	app.Get(webpath.EventEdit, events, s.handleEventEditGet)
	app.Post(webpath.EventEdit, events, s.handleEventEditPost)
	app.Post(webpath.EventToggle, events, s.handleEventToggle)
	app.Post(webpath.EventDelete, events, s.handleEventDelete)

	users := s.requireRoles(managers)
	app.Get(webpath.Users, s.requireAuth(), users, s.handleUsers)
	app.Get(webpath.UserEdit, s.requireAuth(), users, s.handleUserEditGet)
	app.Post(webpath.UserEdit, s.requireAuth(), users, s.handleUserEditPost)
	app.Post(webpath.UserToggleMain, users, s.handleUserToggleMain)
	app.Post(webpath.UserDelete, users, s.handleUserDelete)

	app.Get(webpath.Subscribers, s.requireRoles(privileged), s.handleSubscribers)
	app.Post(webpath.SubscriberDelete, s.requireRoles(managers), s.handleSubscriberDelete)

	mail := s.requireRoles(privileged)
	app.Get(webpath.Emails, mail, s.handleEmails)
	app.Post(webpath.EmailsCheckNew, mail, s.handleEmailsCheckNew)
	app.Post(webpath.EmailApprove, mail, s.emailAction(s.approveEmail, "approved"))
	app.Post(webpath.EmailReject, mail, s.emailAction(s.rejectEmail, "rejected"))
	app.Post(webpath.EmailDelete, mail, s.emailAction(s.deleteEmail, "deleted"))
	app.Get(webpath.EmailAttachment, mail, s.handleEmailAttachment)
}

func (s *Server) Serve() error {
	addr := s.cfg.Server.Host + ":" + strconv.Itoa(s.cfg.Server.Port)
	if s.cfg.Server.CertFile != "" && s.cfg.Server.KeyFile != "" {
		s.log.WithField("addr", addr).Info("listening with tls")
		return s.app.ListenTLS(addr, s.cfg.Server.CertFile, s.cfg.Server.KeyFile)
	}
	s.log.WithField("addr", addr).Info("listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SweepThrottle drops idle login limiters.
func (s *Server) SweepThrottle() {
	s.logins.Sweep()
}

const sessionKey = "session"

func sessionFrom(c *fiber.Ctx) session.Session {
	sess, ok := c.Locals(sessionKey).(session.Session)
	if !ok {
		return session.SignedOut()
	}
	return sess
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}
	entry := s.log.WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     status,
		"duration":   time.Since(start).String(),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	})
	if status >= fiber.StatusInternalServerError {
		entry.WithError(err).Warn("request")
	} else {
		entry.Debug("request")
	}
	return err
}

// loadSession resolves the stored tokens once per request and keeps the
// cookies in step with the outcome.
func (s *Server) loadSession(c *fiber.Ctx) error {
	ctx := backend.WithRequestID(c.UserContext(), c.GetRespHeader(fiber.HeaderXRequestID))
	c.SetUserContext(ctx)

	stored := backend.Tokens{
		Access:  c.Cookies(cookieToken),
		Refresh: c.Cookies(cookieRefresh),
	}
	sess := s.sessions.Resolve(ctx, stored)
	switch sess.Status {
	case session.StatusSignedIn:
		if sess.Tokens != stored {
			s.setTokens(c, sess.Tokens)
		}
	case session.StatusSignedOut:
		if stored.Access != "" || stored.Refresh != "" {
			s.clearTokens(c)
		}
	}
	c.Locals(sessionKey, sess)
	return c.Next()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		msg = fe.Message
	case backend.IsNetwork(err):
		code = fiber.StatusBadGateway
		msg = backend.MsgUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusGatewayTimeout
		msg = backend.MsgUnavailable
	}
	if code >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	c.Status(code)
	d := newData("Error").WithSession(sessionFrom(c)).WithMessages(msg)
	if rerr := c.Render("error", d, "layouts/main"); rerr != nil {
		return c.SendString(msg)
	}
	return nil
}

// backendFailure applies the common reaction to a backend error: 401 signs
// the user out, 403 sends them home, anything else renders the error page.
func (s *Server) backendFailure(c *fiber.Ctx, err error) error {
	switch {
	case backend.IsUnauthorized(err):
		s.sessions.Logout(sessionFrom(c))
		s.clearTokens(c)
		return c.Redirect(webpath.Login)
	case backend.IsForbidden(err):
		return c.Redirect(webpath.Home)
	case backend.IsNotFound(err):
		return s.notFound(c)
	}
	return err
}

func (s *Server) render(c *fiber.Ctx, view string, d data) error {
	return c.Render(view, d.WithSession(sessionFrom(c)), "layouts/main")
}

func paramID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return id, nil
}

// dict builds a map from key/value pairs for passing several values to a
// nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}
