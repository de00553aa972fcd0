package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	botsqlite "github.com/goserg/clubsite/bot/botstorage/sqlite"
	"github.com/goserg/clubsite/bot/tgbot"
	"github.com/goserg/clubsite/internal/backend"
	"github.com/goserg/clubsite/internal/cache/mem"
	"github.com/goserg/clubsite/internal/config"
	"github.com/goserg/clubsite/internal/inbox"
	"github.com/goserg/clubsite/internal/logger"
	"github.com/goserg/clubsite/internal/notify"
	"github.com/goserg/clubsite/internal/scheduler"
	"github.com/goserg/clubsite/internal/session"
	"github.com/goserg/clubsite/internal/web"

	"github.com/sirupsen/logrus"
)

const sweepSchedule = "@every 5m"

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var serverConfigPath, botConfigPath string
	flag.StringVar(&serverConfigPath, "server-config", "configs/server.toml", "path to server config")
	flag.StringVar(&botConfigPath, "bot-config", "configs/bot.toml", "path to bot config")
	flag.Parse()

	cfg, err := config.New(serverConfigPath, botConfigPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := backend.New(cfg.Backend, log)
	if err != nil {
		return err
	}
	sessionCache := mem.New(cfg.Auth.SessionTTL.Duration)
	sessions := session.NewProvider(api, sessionCache, cfg.Auth.ResolveWait.Duration, log)
	mail := inbox.New(api, log)

	if cfg.TgBot.Enabled {
		closeBot, err := startBot(ctx, cfg, mail, log)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		defer closeBot()
	}

	server, err := web.New(cfg, api, sessions, mail, log)
	if err != nil {
		return err
	}

	sched := scheduler.New(2*cfg.Backend.Timeout.Duration+time.Second, log)
	err = sched.Add(sweepSchedule, "sweep", func(context.Context) error {
		n := sessionCache.Sweep()
		server.SweepThrottle()
		log.WithField("sessions", n).Debug("swept expired sessions")
		return nil
	})
	if err != nil {
		return err
	}
	if cfg.Mail.CheckSchedule != "" {
		job := scheduler.MailCheck(sessions, mail, cfg.Backend.ServiceUsername, cfg.Backend.ServicePassword)
		if err := sched.Add(cfg.Mail.CheckSchedule, "check_new_mail", job); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return server.Shutdown()
	}
}

// startBot opens the bot storage, starts polling and hooks new mail
// announcements into the inbox.
func startBot(ctx context.Context, cfg config.Config, mail *inbox.Inbox, log *logrus.Logger) (func(), error) {
	store, err := botsqlite.New(log, cfg.TgBot)
	if err != nil {
		return nil, err
	}
	bot, err := tgbot.New(store, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	go bot.Run(ctx)
	mail.AddHook(notify.New(store, bot, log))
	return func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("close bot storage")
		}
	}, nil
}
