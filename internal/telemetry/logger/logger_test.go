package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "text format", cfg: Config{Level: "debug", Format: "text"}},
		{name: "console format", cfg: Config{Level: "info", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if l := New(tt.cfg); l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("test message", "component", "test-value")

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}
			if msg, ok := logEntry["msg"].(string); !ok || msg != "test message" {
				t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
			}
			if lvl, ok := logEntry["level"].(string); !ok || lvl != tt.level {
				t.Errorf("Expected level=%s, got %v", tt.level, logEntry["level"])
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json", Output: &buf})

	l.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("Info logged below configured level: %s", buf.String())
	}

	l.Warn("should be written")
	if buf.Len() == 0 {
		t.Error("Warn not logged at configured level")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Error("Debug logged at info level")
	}

	SetLevel("debug")
	defer SetLevel("info")

	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %s, want debug", got)
	}

	l.Debug("written")
	if buf.Len() == 0 {
		t.Error("Debug not logged after SetLevel(debug)")
	}
}

func TestRedaction(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"passphrase redacted", "passphrase", "hunter2", redactedValue},
		{"salt redacted", "encryption_salt", "app.v1", redactedValue},
		{"secret redacted", "client_secret", "abc123", redactedValue},
		{"plain field untouched", "path", "/tmp/store.json", "/tmp/store.json"},
		{"empty value untouched", "password", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: "info", Format: "json", Output: &buf})
			l.Info("msg", tt.key, tt.value)

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}
			if got := logEntry[tt.key]; got != tt.want {
				t.Errorf("attr %q = %v, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRedactionNestedGroup(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.With("store", "main").WithGroup("crypto").Info("msg", "derived_key", "deadbeef")

	out := buf.String()
	if strings.Contains(out, "deadbeef") {
		t.Errorf("nested sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, redactedValue) {
		t.Errorf("nested sensitive value not redacted: %s", out)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"passphrase", true},
		{"EncryptionKey", true},
		{"user_password", true},
		{"filename", false},
		{"entries", false},
	}

	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
