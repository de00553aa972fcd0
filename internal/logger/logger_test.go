package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.level).GetLevel(), tt.level)
	}
}
