package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	// Test creating a logger
	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Verify it's a logrus.Entry with the component field
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}

	// Same component returns the same entry
	if NewLogger("test-component") != logger {
		t.Error("Expected NewLogger to return the cached entry")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	entry := logger.WithField("component", "test")
	entry.WithField("key", "todos").Info("Test message")

	output := buf.String()
	for _, want := range []string{"[INFO]", "[test]", "Test message", "key=todos"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Replay failed",
		Data:    logrus.Fields{"component": "history", "op": "undo", "key": "a"},
	}

	tests := []struct {
		name    string
		config  FormatConfig
		want    []string
		notWant []string
	}{
		{
			name:   "default",
			config: FormatConfig{},
			want:   []string{"2024-01-15 10:30:45", "[WARN]", "[history]", "Replay failed", " key=a op=undo"},
		},
		{
			name:    "no timestamp or component",
			config:  FormatConfig{DisableTimestamp: true, DisableComponent: true},
			want:    []string{"[WARN] Replay failed"},
			notWant: []string{"2024-01-15", "[history]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &TextFormatter{Config: tt.config}
			out, err := f.Format(entry)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			got := string(out)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Format() = %q, want it to contain %q", got, want)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("Format() = %q, should not contain %q", got, notWant)
				}
			}
		})
	}
}

func TestSetConfigReconfiguresLoggers(t *testing.T) {
	t.Setenv("KVSTORE_LOG_LEVEL", "")
	defer SetConfig(Config{})

	logger := NewLogger("reconfigure-test")
	SetConfig(Config{Level: "debug", Format: FormatConfig{Preset: "json"}})

	if logger.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %v", logger.Logger.GetLevel())
	}
	if _, ok := logger.Logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", logger.Logger.Formatter)
	}
}

func TestLevelFromEnvironment(t *testing.T) {
	t.Setenv("KVSTORE_LOG_LEVEL", "error")

	logger := logrus.New()
	configure(logger, Config{Level: "debug"})
	if logger.GetLevel() != logrus.ErrorLevel {
		t.Errorf("Expected env level to win, got %v", logger.GetLevel())
	}
}

func TestStderrModes(t *testing.T) {
	logger := logrus.New()

	configure(logger, Config{Format: FormatConfig{StructuredToStderr: "never"}})
	if logger.Out != io.Discard {
		t.Error("Expected output to be discarded in 'never' mode")
	}

	configure(logger, Config{Format: FormatConfig{StructuredToStderr: "always"}})
	if logger.Out != Output() {
		t.Error("Expected output to go to the shared sink in 'always' mode")
	}
}

func TestRedirectOutput(t *testing.T) {
	var buf bytes.Buffer
	restore := RedirectOutput(&buf)
	defer restore()

	logger := logrus.New()
	configure(logger, Config{Format: FormatConfig{StructuredToStderr: "always", Preset: "simple"}})
	logger.Info("redirected")

	if !strings.Contains(buf.String(), "[INFO] redirected") {
		t.Errorf("Expected redirected output, got %q", buf.String())
	}
}

func TestRedirectOutputRestores(t *testing.T) {
	var first, second bytes.Buffer
	restoreFirst := RedirectOutput(&first)
	defer restoreFirst()

	restoreSecond := RedirectOutput(&second)
	Output().Write([]byte("inner\n"))
	restoreSecond()
	Output().Write([]byte("outer\n"))

	if first.String() != "outer\n" || second.String() != "inner\n" {
		t.Errorf("Unexpected routing: first=%q second=%q", first.String(), second.String())
	}
}
