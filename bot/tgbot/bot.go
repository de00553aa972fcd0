package tgbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goserg/clubsite/bot/botstorage"
	botmodel "github.com/goserg/clubsite/bot/model"
	"github.com/goserg/clubsite/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrBadRequest    = errors.New("unknown command, see /help")
	ErrWrongPassword = errors.New("wrong password")
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api  *tgbotapi.BotAPI
	send sender

	botStorage botstorage.BotStorage
	log        *logrus.Entry

	subs *subscriptions

	commands *Commands
}

func New(bs botstorage.BotStorage, cfg config.Config, log *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TgBot.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	api.Debug = cfg.Server.Debug
	b, err := newBot(api, bs, cfg.TgBot.SubscribePass, log)
	if err != nil {
		return nil, err
	}
	b.api = api
	return b, nil
}

func newBot(s sender, bs botstorage.BotStorage, subscribePass string, log *logrus.Logger) (*Bot, error) {
	subs := newSubs()
	users, err := bs.ListUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		for _, subType := range users[i].Subscriptions {
			subs.Add(subType, users[i].ID)
		}
	}

	b := &Bot{
		send:       s,
		botStorage: bs,
		log:        log.WithField("name", "tg_bot"),
		subs:       subs,
	}
	b.commands = NewCommands(
		bs,
		subscribePass,
		func(id int64) {
			b.subs.Add(botmodel.NewEmail, id)
		},
		func(id int64) {
			b.subs.Remove(botmodel.NewEmail, id)
		},
	)
	return b, nil
}

// Run polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleMessage(update)
		}
	}
}

func (b *Bot) handleMessage(update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(logrus.Fields{
		"user_id": tgUser.ID,
		"command": update.Message.Command(),
	})
	user, err := b.botStorage.GetUser(tgUser.ID)
	if errors.Is(err, botstorage.ErrNotFound) {
		now := time.Now()
		user, err = b.botStorage.NewUser(botmodel.User{
			ID:        tgUser.ID,
			FirstName: tgUser.FirstName,
			Username:  tgUser.UserName,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err != nil {
		log.WithError(err).Error("unable to get user from db")
		return
	}

	// the password argument of /sub is not worth keeping
	if err := b.botStorage.Log(user, "/"+update.Message.Command()); err != nil {
		log.WithError(err).Error("can't log to db")
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	msg.Text, err = b.commands.RunCommand(user, update.Message.Command(), update.Message.CommandArguments())
	if err != nil {
		msg.Text = err.Error()
	}
	if _, err := b.send.Send(msg); err != nil {
		log.WithError(err).Error("send error")
	}
}

// Notify sends text to every chat subscribed to event and returns how many
// messages went out.
func (b *Bot) Notify(_ context.Context, event botmodel.EventType, text string) int {
	sent := 0
	for _, userID := range b.subs.GetUserIDs(event) {
		msg := tgbotapi.NewMessage(userID, text)
		if _, err := b.send.Send(msg); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Warn("notification not delivered")
			continue
		}
		sent++
	}
	return sent
}
