package webpath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Home      = "/"
	Subscribe = "/subscribe"
	Events    = "/events"
	Articles  = "/articles"
	Team      = "/team"

	Login    = "/login"
	Logout   = "/logout"
	Register = "/register"

	Profile     = "/profile"
	ProfileEdit = "/profile/edit"

	EventNew    = Events + "/new"
	EventEdit   = Events + "/:id/edit"
	EventToggle = Events + "/:id/toggle"
	EventDelete = Events + "/:id/delete"

	Users          = "/users"
	UserEdit       = Users + "/:id/edit"
	UserToggleMain = Users + "/:id/main"
	UserDelete     = Users + "/:id/delete"

	Subscribers      = "/subscribers"
	SubscriberDelete = Subscribers + "/:id/delete"

	Emails             = "/emails"
	EmailsCheckNew     = Emails + "/check-new"
	EmailApprove       = Emails + "/:id/approve"
	EmailReject        = Emails + "/:id/reject"
	EmailDelete        = Emails + "/:id/delete"
	EmailAttachment    = Emails + "/:id/attachments/:n"
	EmailSelectedParam = "selected"
	EmailPagesParam    = "pages"
)

func Path() map[string]string {
	return map[string]string{
		"Home":           Home,
		"Subscribe":      Subscribe,
		"Events":         Events,
		"EventNew":       EventNew,
		"Articles":       Articles,
		"Team":           Team,
		"Login":          Login,
		"Logout":         Logout,
		"Register":       Register,
		"Profile":        Profile,
		"ProfileEdit":    ProfileEdit,
		"Users":          Users,
		"Subscribers":    Subscribers,
		"Emails":         Emails,
		"EmailsCheckNew": EmailsCheckNew,
	}
}

// With fills the :id style parameters of route in order.
func With(route string, params ...any) string {
	parts := strings.Split(route, "/")
	n := 0
	for i, p := range parts {
		if strings.HasPrefix(p, ":") && n < len(params) {
			switch v := params[n].(type) {
			case int:
				parts[i] = strconv.Itoa(v)
			case string:
				parts[i] = url.PathEscape(v)
			}
			n++
		}
	}
	return strings.Join(parts, "/")
}
