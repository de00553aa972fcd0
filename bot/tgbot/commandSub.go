package tgbot

import (
	"strings"

	"github.com/goserg/clubsite/bot/botstorage"
	"github.com/goserg/clubsite/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

type SubCommand struct {
	password   string
	botStorage botstorage.BotStorage
	sub        func(int64)
}

// Run subscribes the chat to moderation notices. Plain users must know the
// club password; once accepted they are promoted to moderator.
func (c *SubCommand) Run(user model.User, args string) (string, error) {
	if user.Role == model.RoleUser {
		if c.password == "" || strings.TrimSpace(args) != c.password {
			return "", ErrWrongPassword
		}
		user.Role = model.RoleModerator
		if err := c.botStorage.UpdateUserRole(user); err != nil {
			return "", err
		}
	}
	if err := c.botStorage.Subscribe(user, model.NewEmail); err != nil {
		return "", err
	}
	c.sub(user.ID)
	return "Subscribed to new email notifications. To stop them: /unsub", nil
}

func (c *SubCommand) Help() string {
	return "Subscribe to new email notifications. Usage: /sub <password>"
}

func (c *SubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *SubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
