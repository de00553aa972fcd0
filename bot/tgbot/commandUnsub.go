package tgbot

import (
	"github.com/goserg/clubsite/bot/botstorage"
	"github.com/goserg/clubsite/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

type UnsubCommand struct {
	botStorage botstorage.BotStorage
	unsub      func(int64)
}

func (c *UnsubCommand) Run(user model.User, _ string) (string, error) {
	if err := c.botStorage.Unsubscribe(user, model.NewEmail); err != nil {
		return "", err
	}
	c.unsub(user.ID)
	return "Unsubscribed. To subscribe again: /sub", nil
}

func (c *UnsubCommand) Help() string {
	return "Stop new email notifications"
}

func (c *UnsubCommand) Permission() mapset.Set[model.UserRole] {
	return trusted()
}

func (c *UnsubCommand) Visibility() mapset.Set[model.UserRole] {
	return trusted()
}
