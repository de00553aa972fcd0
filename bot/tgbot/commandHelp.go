package tgbot

import (
	"strings"

	"github.com/goserg/clubsite/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Run(user model.User, args string) (string, error) {
	args = strings.TrimPrefix(strings.TrimSpace(args), "/")
	if command, ok := c.commands[args]; ok && command.Visibility().Contains(user.Role) {
		return command.Help(), nil
	}
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range visibleNames(c.commands, user) {
		if name == "start" {
			continue
		}
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Use /help <command> for details")
	return b.String(), nil
}

func (c *HelpCommand) Help() string {
	return "Lists the available commands"
}

func (c *HelpCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *HelpCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
