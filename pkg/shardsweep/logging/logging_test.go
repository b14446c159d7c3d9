package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	levels := map[Level]string{
		LevelDebug: "debug",
		LevelInfo:  "info",
		LevelWarn:  "warn",
		LevelError: "error",
		Level(42):  "unknown",
	}
	for level, want := range levels {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestGetBeforeInitIsSilent(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	logger := Get("early")
	logger.Info("nobody hears this")

	if logger.Component() != "early" {
		t.Errorf("Component() = %q, want %q", logger.Component(), "early")
	}
}

func TestInitWritesToFile(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	path := filepath.Join(t.TempDir(), "logs", "shardsweep.log")
	if err := Init(Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := Get("sweep")
	logger.Info("sweep finished", "shards", 6)
	logger.Debug("hidden detail")

	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content := readLog(t, path)
	if !strings.Contains(content, "sweep finished") {
		t.Errorf("log file missing info message: %q", content)
	}
	if !strings.Contains(content, "shards=6") {
		t.Errorf("log file missing key/value pair: %q", content)
	}
	if strings.Contains(content, "hidden detail") {
		t.Errorf("log file contains debug message below configured level: %q", content)
	}
}

func TestInitRebuildsExistingLoggers(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	logger := Get("plot")

	path := filepath.Join(t.TempDir(), "rebuild.log")
	if err := Init(Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if Get("plot") != logger {
		t.Error("Get() returned a different pointer after Init")
	}

	logger.Info("chart saved")
	_ = Close()

	if content := readLog(t, path); !strings.Contains(content, "chart saved") {
		t.Errorf("logger obtained before Init did not write after Init: %q", content)
	}
}

func TestComponentLevels(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	path := filepath.Join(t.TempDir(), "components.log")
	err := Init(Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"watcher": "warn", "history": "debug"},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Get("watcher").Info("watcher info suppressed")
	Get("watcher").Warn("watcher warn kept")
	Get("history").Debug("history debug kept")
	_ = Close()

	content := readLog(t, path)
	if strings.Contains(content, "watcher info suppressed") {
		t.Error("component override did not suppress info")
	}
	if !strings.Contains(content, "watcher warn kept") {
		t.Error("component override dropped warn")
	}
	if !strings.Contains(content, "history debug kept") {
		t.Error("component override did not enable debug")
	}
}

func TestInitInvalidLevels(t *testing.T) {
	t.Cleanup(func() { _ = Close() })
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"default level", Config{Level: "loud", Path: filepath.Join(dir, "a.log")}},
		{"component level", Config{Level: "info", Path: filepath.Join(dir, "b.log"), Components: map[string]string{"sweep": "loud"}}},
		{"console level", Config{Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.cfg); err == nil {
				t.Error("Init() error = nil, want error")
			}
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	globalState.mu.Lock()
	globalState.consoleOut = &buf
	globalState.mu.Unlock()
	t.Cleanup(func() {
		_ = Close()
		globalState.mu.Lock()
		globalState.consoleOut = os.Stderr
		globalState.mu.Unlock()
	})

	path := filepath.Join(t.TempDir(), "console.log")
	if err := Init(Config{Level: "debug", Path: path, ConsoleLevel: "warn"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := Get("console-test")
	logger.Info("file only")
	logger.Warn("both sinks")

	out := buf.String()
	if strings.Contains(out, "file only") {
		t.Errorf("console received message below console level: %q", out)
	}
	if !strings.Contains(out, "both sinks") {
		t.Errorf("console missing warn message: %q", out)
	}
}

func TestTUIModeDisablesConsole(t *testing.T) {
	var buf bytes.Buffer
	globalState.mu.Lock()
	globalState.consoleOut = &buf
	globalState.mu.Unlock()
	t.Cleanup(func() {
		_ = Close()
		globalState.mu.Lock()
		globalState.consoleOut = os.Stderr
		globalState.mu.Unlock()
	})

	path := filepath.Join(t.TempDir(), "tui.log")
	if err := Init(Config{Level: "info", Path: path, ConsoleLevel: "info", TUIMode: true}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Get("tui").Error("kept off screen")

	if buf.Len() != 0 {
		t.Errorf("console written in TUI mode: %q", buf.String())
	}
}

func TestWith(t *testing.T) {
	t.Cleanup(func() { _ = Close() })

	path := filepath.Join(t.TempDir(), "with.log")
	if err := Init(Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Get("sweep").With("run", "abc123").Info("recorded")
	_ = Close()

	if content := readLog(t, path); !strings.Contains(content, "run=abc123") {
		t.Errorf("With() context missing from output: %q", content)
	}
}

func TestCloseWithoutInit(t *testing.T) {
	if err := Close(); err != nil {
		t.Errorf("Close() without Init error = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want %q", cfg.Level, "info")
	}
	if filepath.Base(cfg.Path) != "shardsweep.log" {
		t.Errorf("Path = %q, want file shardsweep.log", cfg.Path)
	}
	if cfg.Rotation.MaxSizeMB != 10 {
		t.Errorf("Rotation.MaxSizeMB = %d, want 10", cfg.Rotation.MaxSizeMB)
	}
}
