package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"go.uber.org/zap/zapcore"
)

var testApp = config.AppConfig{Name: "medscript-test", Environment: "test", Version: "1.2.3"}

func TestNew_Console(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug", Format: FormatConsole, OutputPaths: []string{"stderr"}}, testApp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}
}

func TestNew_JSONCarriesDeploymentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.LogConfig{Level: "info", Format: FormatJSON, OutputPaths: []string{path}}, testApp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at info level")
	}
	log.Info("prescription created")
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, raw)
	}

	want := map[string]string{
		"msg":     "prescription created",
		"level":   "info",
		"service": "medscript-test",
		"env":     "test",
		"version": "1.2.3",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
	ts, _ := entry["ts"].(string)
	if _, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err != nil {
		t.Errorf("ts %q is not ISO8601: %v", ts, err)
	}
}

func TestNew_DefaultsToStdout(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "warn", Format: FormatJSON}, config.AppConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"level", config.LogConfig{Level: "loud", Format: FormatJSON}},
		{"format", config.LogConfig{Level: "info", Format: "xml"}},
		{"empty format", config.LogConfig{Level: "info"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, testApp); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
