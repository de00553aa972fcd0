package tgbot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goserg/clubsite/bot/botstorage"
	"github.com/goserg/clubsite/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

type StatusCommand struct {
	botStorage botstorage.BotStorage
	now        func() time.Time
}

func (c *StatusCommand) Run(user model.User, _ string) (string, error) {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	var b strings.Builder
	if user.Subscribed(model.NewEmail) {
		b.WriteString("You are subscribed to new email notifications.\n")
	} else {
		b.WriteString("You are not subscribed. Use /sub <password>.\n")
	}

	count, err := c.botStorage.CountNotifiedSince(now().Add(-24 * time.Hour))
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "Emails announced in the last 24h: %d\n", count)

	last, err := c.botStorage.LastNotified()
	switch {
	case errors.Is(err, botstorage.ErrNotFound):
		b.WriteString("No emails announced yet.")
	case err != nil:
		return "", err
	default:
		fmt.Fprintf(&b, "Last: %q at %s", last.Subject, last.NotifiedAt.Format(time.DateTime))
	}
	return b.String(), nil
}

func (c *StatusCommand) Help() string {
	return "Shows your subscription and recent notices"
}

func (c *StatusCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *StatusCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
