package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Garsondee/Gravinyon/internal/config"
)

func TestNewConfig_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		zc := newConfig(config.LoggingConfig{Level: tc.level})
		if got := zc.Level.Level(); got != tc.want {
			t.Errorf("level %q: got %v want %v", tc.level, got, tc.want)
		}
	}
}

func TestNewConfig_Formats(t *testing.T) {
	zc := newConfig(config.LoggingConfig{Format: "json"})
	if zc.Encoding != "json" {
		t.Fatalf("expected json encoding, got %q", zc.Encoding)
	}
	zc = newConfig(config.LoggingConfig{Format: "console"})
	if zc.Encoding != "console" || !zc.DisableCaller || zc.EncoderConfig.ConsoleSeparator != "  " {
		t.Fatalf("unexpected console config %+v", zc)
	}
}

func TestNew_Builds(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "error", Format: "console"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if log.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn should be disabled at error level")
	}
	_ = log.Sync()
}
