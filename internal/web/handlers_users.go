package web

import (
	"github.com/goserg/clubsite/internal/domain"
	"github.com/goserg/clubsite/internal/web/webpath"

	"github.com/gofiber/fiber/v2"
)

// assignableRoles are the roles a manager can hand out.
var assignableRoles = []domain.Role{domain.RoleBoard, domain.RolePresident}

func assignable(r domain.Role) bool {
	for _, a := range assignableRoles {
		if a == r {
			return true
		}
	}
	return false
}

// userPatch builds the update for target. The role is only sent when the
// target is not an admin and the editor is a manager.
func userPatch(form profileForm, role domain.Role, target domain.User, editor domain.Role) domain.ProfilePatch {
	patch := form.patch()
	if target.Role != domain.RoleAdmin && editor.IsManager() && assignable(role) {
		patch.Role = &role
	}
	return patch
}

func (s *Server) handleUsers(c *fiber.Ctx) error {
	list, err := s.api.ListUsers(c.UserContext(), sessionFrom(c).Token())
	if err != nil {
		return s.backendFailure(c, err)
	}
	return s.render(c, "users", newData("Users").With("Users", list))
}

func (s *Server) userEditData(target domain.User, form profileForm, role domain.Role) data {
	return newData("Edit user").
		With("Target", target).
		With("Form", form).
		With("RoleValue", role).
		With("Roles", assignableRoles).
		With("RoleEditable", target.Role != domain.RoleAdmin)
}

func (s *Server) handleUserEditGet(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	target, err := s.api.GetUser(c.UserContext(), sessionFrom(c).Token(), id)
	if err != nil {
		return s.backendFailure(c, err)
	}
	role := target.Role
	if !assignable(role) {
		role = domain.RoleBoard
	}
	return s.render(c, "user_edit", s.userEditData(target, profileFormFrom(target), role))
}

func (s *Server) handleUserEditPost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	sess := sessionFrom(c)
	target, err := s.api.GetUser(c.UserContext(), sess.Token(), id)
	if err != nil {
		return s.backendFailure(c, err)
	}
	form := parseProfileForm(c)
	role := domain.Role(c.FormValue("role"))

	_, err = s.api.UpdateUser(c.UserContext(), sess.Token(), id, userPatch(form, role, target, sess.Role()))
	if err != nil {
		if isAuthFailure(err) {
			return s.backendFailure(c, err)
		}
		return s.render(c, "user_edit", s.userEditData(target, form, role).WithMessages(validationLines(err)...))
	}
	return c.Redirect(webpath.Users)
}

func (s *Server) handleUserToggleMain(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	main := c.FormValue("is_main") == "true"
	_, err = s.api.UpdateUser(c.UserContext(), sessionFrom(c).Token(), id, domain.ProfilePatch{IsMain: &main})
	if err != nil {
		return s.backendFailure(c, err)
	}
	return c.Redirect(webpath.Users)
}

func (s *Server) handleUserDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.api.DeleteUser(c.UserContext(), sessionFrom(c).Token(), id); err != nil && !isGone(err) {
		return s.backendFailure(c, err)
	}
	return c.Redirect(webpath.Users)
}
