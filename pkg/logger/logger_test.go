package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
		{"unknown falls back to info", "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(Config{Level: tt.level})
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestLevelIsPerLogger(t *testing.T) {
	quiet := New(Config{Level: "error"})
	chatty := New(Config{Level: "debug"})

	assert.Equal(t, zerolog.ErrorLevel, quiet.GetLevel())
	assert.Equal(t, zerolog.DebugLevel, chatty.GetLevel())
}
