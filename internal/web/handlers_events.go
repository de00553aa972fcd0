package web

import (
	"time"

	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/events"
	"github.com/goserg/clubsite/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
)

func parseEventForm(c *fiber.Ctx) events.Form {
	return events.Form{
		Title:            c.FormValue("title"),
		Description:      c.FormValue("description"),
		StartDate:        c.FormValue("start_date"),
		EndDate:          c.FormValue("end_date"),
		Venue:            c.FormValue("venue"),
		RegistrationLink: c.FormValue("registration_link"),
		Category:         c.FormValue("category"),
		Capacity:         c.FormValue("capacity"),
		IsActive:         c.FormValue("is_active") == "on" || c.FormValue("is_active") == "true",
	}
}

func eventFormData(title, action string, form events.Form) data {
	return newData(title).
		With("Form", form).
		With("Action", action).
		With("Categories", domain.Categories())
}

func (s *Server) handleEventNewGet(c *fiber.Ctx) error {
	return s.render(c, "event_form", eventFormData("New event", webpath.EventNew, events.Form{
		Category: string(domain.CategoryOther),
		IsActive: true,
	}))
}

func (s *Server) handleEventNewPost(c *fiber.Ctx) error {
	form := parseEventForm(c)
	d := eventFormData("New event", webpath.EventNew, form)
	in, err := form.Parse(time.Local)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, "event_form", d.WithErrors(err))
	}
	if _, err := s.api.CreateEvent(c.UserContext(), sessionFrom(c).Token(), in); err != nil {
		if isAuthFailure(err) {
			return s.backendFailure(c, err)
		}
		return s.render(c, "event_form", d.WithMessages(validationLines(err)...))
	}
	return c.Redirect(webpath.Events)
}

func (s *Server) handleEventEditGet(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	e, err := s.api.GetEvent(c.UserContext(), sessionFrom(c).Token(), id)
	if err != nil {
		return s.backendFailure(c, err)
	}
	return s.render(c, "event_form", eventFormData("Edit event", webpath.With(webpath.EventEdit, id), events.FormFromEvent(e, time.Local)))
}

func (s *Server) handleEventEditPost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	form := parseEventForm(c)
	d := eventFormData("Edit event", webpath.With(webpath.EventEdit, id), form)
	in, err := form.Parse(time.Local)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, "event_form", d.WithErrors(err))
	}
	if _, err := s.api.UpdateEvent(c.UserContext(), sessionFrom(c).Token(), id, in); err != nil {
		if isAuthFailure(err) || isGone(err) {
			return s.backendFailure(c, err)
		}
		return s.render(c, "event_form", d.WithMessages(validationLines(err)...))
	}
	return c.Redirect(webpath.Events)
}

func (s *Server) handleEventToggle(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	active := c.FormValue("is_active") == "true"
	if _, err := s.api.SetEventActive(c.UserContext(), sessionFrom(c).Token(), id, active); err != nil && !isGone(err) {
		return s.backendFailure(c, err)
	}
	return c.Redirect(webpath.Events)
}

func (s *Server) handleEventDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.api.DeleteEvent(c.UserContext(), sessionFrom(c).Token(), id); err != nil && !isGone(err) {
		return s.backendFailure(c, err)
	}
	return c.Redirect(webpath.Events)
}
