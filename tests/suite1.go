//go:build e2e

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	sel "github.com/goserg/clubsite/tests/selectors"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/suite"
)

const siteURL = "http://127.0.0.1:3000"

type SiteSuite struct {
	suite.Suite
	process *Process
	backend *fakeBackend
	api     *httptest.Server
}

var (
	serverConfigPath string
	botConfigPath    string
)

func init() {
	flag.StringVar(&serverConfigPath, "server-config", "", "path to server configs")
	flag.StringVar(&botConfigPath, "bot-config", "", "path to bot configs")
}

func (s *SiteSuite) SetupSuite() {
	s.Require().NotEmpty(serverConfigPath, "-server-config MUST be set")
	s.Require().NotEmpty(botConfigPath, "-bot-config MUST be set")

	s.backend = &fakeBackend{}
	s.api = httptest.NewServer(s.backend)

	p := NewProcess(context.Background(),
		[]string{"CLUBSITE_BACKEND_URL=" + s.api.URL},
		"../bin/server",
		"-server-config", serverConfigPath,
		"-bot-config", botConfigPath)
	s.process = p
	if err := p.Start(context.Background()); err != nil {
		s.T().Fatalf("cant start process: %v", err)
	}
	if err := waitForStartup(5 * time.Second); err != nil {
		s.T().Fatalf("unable to start app: %v\n%s", err, p.Logs())
	}
}

func waitForStartup(duration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	ticker := time.NewTicker(time.Second / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r, err := http.Get(siteURL + "/")
			if err == nil {
				r.Body.Close()
				if r.StatusCode == http.StatusOK {
					return nil
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *SiteSuite) TearDownSuite() {
	exitCode, err := s.process.Stop()
	if err != nil {
		s.T().Logf("cant stop process: %v", err)
	}
	s.api.Close()
	s.T().Logf("process finished with code %d", exitCode)
}

func (s *SiteSuite) browser() (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(context.Background(), 15*time.Second)
	ctx, cancel := chromedp.NewContext(ctx)
	return ctx, func() {
		cancel()
		cancelTimeout()
	}
}

func (s *SiteSuite) TestGuestAccess() {
	ctx, cancel := s.browser()
	defer cancel()

	var location string
	err := chromedp.Run(ctx,
		s.CheckStatus(siteURL+"/", http.StatusOK),
		s.CheckStatus(siteURL+"/events", http.StatusOK),
		s.CheckStatus(siteURL+"/articles", http.StatusOK),
		s.CheckStatus(siteURL+"/team", http.StatusOK),
		s.CheckStatus(siteURL+"/login", http.StatusOK),
		s.CheckStatus(siteURL+"/emails", http.StatusNotFound),
		s.CheckStatus(siteURL+"/users", http.StatusNotFound),
		chromedp.Navigate(siteURL+"/profile"),
		chromedp.Location(&location),
	)
	s.Require().NoError(err)
	s.Equal(siteURL+"/login", location)
}

func (s *SiteSuite) TestEventsPartition() {
	ctx, cancel := s.browser()
	defer cancel()

	var upcoming, past string
	err := chromedp.Run(ctx,
		chromedp.Navigate(siteURL+"/events"),
		chromedp.Text(sel.UpcomingEvents, &upcoming),
		chromedp.Text(sel.PastEvents, &past),
	)
	s.Require().NoError(err)
	s.Contains(upcoming, "Spring Gala")
	s.Contains(past, "Winter Talk")
}

func (s *SiteSuite) TestSubscribeDuplicate() {
	ctx, cancel := s.browser()
	defer cancel()

	var msg string
	err := chromedp.Run(ctx,
		chromedp.Navigate(siteURL+"/"),
		chromedp.SendKeys(sel.SubscribeFirstName, "Ann"),
		chromedp.SendKeys(sel.SubscribeLastName, "Lee"),
		chromedp.SendKeys(sel.SubscribeEmail, takenEmail),
		chromedp.Click(sel.SubscribeSubmit),
		chromedp.WaitVisible(sel.SubscribeError),
		chromedp.Text(sel.SubscribeError, &msg),
		screenshotOnFailure(func() error {
			if msg != duplicateMsg {
				return errors.New("unexpected subscribe error: " + msg)
			}
			return nil
		}, "subscribe_error.png"),
	)
	s.Require().NoError(err)
}

func (s *SiteSuite) TestAdminChecksNewMail() {
	ctx, cancel := s.browser()
	defer cancel()

	var role, list string
	err := chromedp.Run(ctx,
		chromedp.Navigate(siteURL+"/login"),
		chromedp.SendKeys(sel.SignInUsername, adminUsername),
		chromedp.SendKeys(sel.SignInPassword, adminPassword),
		chromedp.Click(sel.SignInSubmit),
		chromedp.WaitVisible(sel.ProfileRole),
		chromedp.Text(sel.ProfileRole, &role),
		chromedp.Navigate(siteURL+"/emails"),
		chromedp.Click(sel.CheckNewButton),
		chromedp.WaitVisible(sel.EmailList),
		chromedp.Text(sel.EmailList, &list),
	)
	s.Require().NoError(err)
	s.Equal("ADMIN", strings.TrimSpace(role))
	s.Contains(list, "Meeting notes")
	s.Equal(1, s.backend.CheckCount())
}

func (s *SiteSuite) CheckStatus(path string, status int) chromedp.Tasks {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(path))
			if err != nil {
				return err
			}
			if int(resp.Status) != status {
				s.T().Errorf("%s: expected status %d, got %d", path, status, resp.Status)
			}
			return nil
		}),
	}
}

// screenshotOnFailure saves the page when check fails.
func screenshotOnFailure(check func() error, file string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		err := check()
		if err == nil {
			return nil
		}
		var shot []byte
		if serr := chromedp.FullScreenshot(&shot, 80).Do(ctx); serr != nil {
			return errors.Join(err, serr)
		}
		if werr := os.WriteFile(file, shot, 0o644); werr != nil {
			return errors.Join(err, werr)
		}
		return fmt.Errorf("%w (screenshot in %s)", err, file)
	}
}
