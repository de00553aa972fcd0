package web

import (
	"errors"
	"strings"

	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/session"
	"github.com/goserg/clubsite/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleLoginGet(c *fiber.Ctx) error {
	if sessionFrom(c).SignedIn() {
		return c.Redirect(webpath.Profile)
	}
	return s.render(c, "login", newData("Sign in"))
}

func (s *Server) handleLoginPost(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	d := newData("Sign in").With("Username", username)

	if !s.logins.Allow(c.IP()) {
		c.Status(fiber.StatusTooManyRequests)
		return s.render(c, "login", d.WithMessages(msgLoginThrottled))
	}
	if err := validateCredentials(username, password); err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, "login", d.WithErrors(err))
	}

	sess, err := s.sessions.Login(c.UserContext(), username, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.Status(fiber.StatusUnauthorized)
			return s.render(c, "login", d.WithMessages(msgLoginInvalid))
		}
		return err
	}
	s.setTokens(c, sess.Tokens)
	return c.Redirect(webpath.Profile)
}

func validateCredentials(username, password string) error {
	var err error
	if username == "" {
		err = errors.Join(err, errors.New("username is required"))
	}
	if password == "" {
		err = errors.Join(err, errors.New("password is required"))
	}
	return err
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	s.sessions.Logout(sessionFrom(c))
	s.clearTokens(c)
	return c.Redirect(webpath.Home)
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	return s.render(c, "profile", newData("Profile"))
}

type profileForm struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	GraduatingYear string
	Major          string
	Description    string
	Title          string
}

func profileFormFrom(u domain.User) profileForm {
	return profileForm{
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		GraduatingYear: u.GraduatingYear,
		Major:          u.Major,
		Description:    u.Description,
		Title:          u.Title,
	}
}

func parseProfileForm(c *fiber.Ctx) profileForm {
	return profileForm{
		Username:       strings.TrimSpace(c.FormValue("username")),
		Email:          strings.TrimSpace(c.FormValue("email")),
		FirstName:      strings.TrimSpace(c.FormValue("first_name")),
		LastName:       strings.TrimSpace(c.FormValue("last_name")),
		GraduatingYear: strings.TrimSpace(c.FormValue("graduating_year")),
		Major:          strings.TrimSpace(c.FormValue("major")),
		Description:    strings.TrimSpace(c.FormValue("description")),
		Title:          strings.TrimSpace(c.FormValue("title")),
	}
}

func (f profileForm) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Username:       &f.Username,
		Email:          &f.Email,
		FirstName:      &f.FirstName,
		LastName:       &f.LastName,
		GraduatingYear: &f.GraduatingYear,
		Major:          &f.Major,
		Description:    &f.Description,
		Title:          &f.Title,
	}
}

func (s *Server) handleProfileEditGet(c *fiber.Ctx) error {
	return s.render(c, "profile_edit", newData("Edit profile").With("Form", profileFormFrom(sessionFrom(c).User)))
}

func (s *Server) handleProfileEditPost(c *fiber.Ctx) error {
	form := parseProfileForm(c)
	_, err := s.sessions.UpdateProfile(c.UserContext(), sessionFrom(c), form.patch())
	if err != nil {
		if errors.Is(err, session.ErrNotAuthorized) {
			return c.Redirect(webpath.Login)
		}
		d := newData("Edit profile").With("Form", form).WithMessages(validationLines(err)...)
		return s.render(c, "profile_edit", d)
	}
	return c.Redirect(webpath.Profile)
}

type registerForm struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	GraduatingYear string
	Major          string
	Description    string
	Title          string
	Role           domain.Role
}

func (s *Server) handleRegisterGet(c *fiber.Ctx) error {
	return s.render(c, "register", newData("Register").
		With("Form", registerForm{Role: domain.RoleBoard}).
		With("Roles", assignableRoles))
}

func (s *Server) handleRegisterPost(c *fiber.Ctx) error {
	form := registerForm{
		Username:       strings.TrimSpace(c.FormValue("username")),
		Email:          strings.TrimSpace(c.FormValue("email")),
		FirstName:      strings.TrimSpace(c.FormValue("first_name")),
		LastName:       strings.TrimSpace(c.FormValue("last_name")),
		GraduatingYear: strings.TrimSpace(c.FormValue("graduating_year")),
		Major:          strings.TrimSpace(c.FormValue("major")),
		Description:    strings.TrimSpace(c.FormValue("description")),
		Title:          strings.TrimSpace(c.FormValue("title")),
		Role:           domain.Role(c.FormValue("role")),
	}
	d := newData("Register").With("Form", form).With("Roles", assignableRoles)

	password := c.FormValue("password")
	password2 := c.FormValue("password2")
	var verr error
	if form.Username == "" {
		verr = errors.Join(verr, errors.New("username is required"))
	}
	if password == "" {
		verr = errors.Join(verr, errors.New("password is required"))
	}
	if password != password2 {
		verr = errors.Join(verr, errors.New("passwords do not match"))
	}
	if !assignable(form.Role) {
		verr = errors.Join(verr, errors.New("role must be BOARD or PRESIDENT"))
	}
	if verr != nil {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, "register", d.WithErrors(verr))
	}

	err := s.sessions.Register(c.UserContext(), sessionFrom(c), domain.Registration{
		Username:       form.Username,
		Email:          form.Email,
		Password:       password,
		Password2:      password2,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		GraduatingYear: form.GraduatingYear,
		Major:          form.Major,
		Description:    form.Description,
		Title:          form.Title,
		Role:           form.Role,
	})
	switch {
	case errors.Is(err, session.ErrForbidden):
		return s.notFound(c)
	case errors.Is(err, session.ErrNotAuthorized):
		return c.Redirect(webpath.Login)
	case err != nil:
		return s.render(c, "register", d.WithMessages(validationLines(err)...))
	}
	return c.Redirect(webpath.Users)
}
