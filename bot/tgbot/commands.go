package tgbot

import (
	"sort"

	"github.com/goserg/clubsite/bot/botstorage"
	"github.com/goserg/clubsite/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

type Command interface {
	Run(user model.User, args string) (string, error)
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
}

func everyone() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleModerator, model.RoleUser)
}

func trusted() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleModerator)
}

type Commands struct {
	list map[string]Command
}

func NewCommands(
	bs botstorage.BotStorage,
	subscribePass string,
	subFn func(id int64),
	unsubFn func(id int64),
) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"sub": &SubCommand{
				password:   subscribePass,
				botStorage: bs,
				sub:        subFn,
			},
			"unsub": &UnsubCommand{
				botStorage: bs,
				unsub:      unsubFn,
			},
			"status": &StatusCommand{
				botStorage: bs,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(user model.User, cmd string, args string) (string, error) {
	command, ok := uc.list[cmd]
	if !ok || !command.Permission().Contains(user.Role) {
		return "", ErrBadRequest
	}
	return command.Run(user, args)
}

// visibleNames lists the commands user may see, sorted.
func visibleNames(commands map[string]Command, user model.User) []string {
	names := make([]string, 0, len(commands))
	for name, command := range commands {
		if command.Visibility().Contains(user.Role) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
