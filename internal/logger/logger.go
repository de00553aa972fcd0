package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.DateTime,
		FullTimestamp:   true,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
