package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job runs once per tick. It gets a context bounded by the job timeout.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *logrus.Entry
}

func New(timeout time.Duration, l *logrus.Logger) *Scheduler {
	log := l.WithField("name", "scheduler")
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout: timeout,
		log:     log,
	}
}

// Add registers job under name on a standard five field cron spec.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		log := s.log.WithField("job", name)
		if err := job(ctx); err != nil {
			log.WithError(err).Warn("job failed")
			return
		}
		log.WithField("duration", time.Since(start).String()).Debug("job done")
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.log.Info("starting")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("stopped")
}

func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

type cronLogger struct {
	log *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
