package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	configDir := filepath.Join(home, ".config", AppName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.ShardSizes) != len(DefaultShardSizes) {
		t.Fatalf("ShardSizes = %v, want %v", cfg.ShardSizes, DefaultShardSizes)
	}
	for i, s := range DefaultShardSizes {
		if cfg.ShardSizes[i] != s {
			t.Errorf("ShardSizes[%d] = %d, want %d", i, cfg.ShardSizes[i], s)
		}
	}

	if cfg.HonestNodes != DefaultHonestNodes {
		t.Errorf("HonestNodes = %d, want %d", cfg.HonestNodes, DefaultHonestNodes)
	}

	if cfg.Bandwidth != DefaultBandwidth {
		t.Errorf("Bandwidth = %v, want %v", cfg.Bandwidth, DefaultBandwidth)
	}

	if cfg.MaxError != 0 {
		t.Errorf("MaxError = %v, want 0", cfg.MaxError)
	}

	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}

	if !cfg.Plot.Enabled {
		t.Error("Plot.Enabled = false, want true")
	}

	if cfg.Plot.Path != DefaultPlotPath {
		t.Errorf("Plot.Path = %q, want %q", cfg.Plot.Path, DefaultPlotPath)
	}

	if cfg.Plot.DPI != DefaultPlotDPI {
		t.Errorf("Plot.DPI = %d, want %d", cfg.Plot.DPI, DefaultPlotDPI)
	}

	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}

	if cfg.History.Path != DefaultHistoryPath() {
		t.Errorf("History.Path = %q, want %q", cfg.History.Path, DefaultHistoryPath())
	}

	if cfg.History.RetentionDays != DefaultRetentionDays {
		t.Errorf("History.RetentionDays = %d, want %d", cfg.History.RetentionDays, DefaultRetentionDays)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
shard_sizes: [4, 8, 32]
honest_nodes: 128
bandwidth: 12.5
max_error: 0.001
output: json
plot:
  enabled: false
  path: ~/charts/sweep.png
  dpi: 96
history:
  enabled: false
  path: /custom/history
  retention_days: 7
`)

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []int{4, 8, 32}
	if len(cfg.ShardSizes) != len(want) {
		t.Fatalf("ShardSizes = %v, want %v", cfg.ShardSizes, want)
	}
	for i := range want {
		if cfg.ShardSizes[i] != want[i] {
			t.Errorf("ShardSizes[%d] = %d, want %d", i, cfg.ShardSizes[i], want[i])
		}
	}

	if cfg.HonestNodes != 128 {
		t.Errorf("HonestNodes = %d, want %d", cfg.HonestNodes, 128)
	}

	if cfg.Bandwidth != 12.5 {
		t.Errorf("Bandwidth = %v, want %v", cfg.Bandwidth, 12.5)
	}

	if cfg.MaxError != 0.001 {
		t.Errorf("MaxError = %v, want %v", cfg.MaxError, 0.001)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want %q", cfg.Output, "json")
	}

	if cfg.Plot.Enabled {
		t.Error("Plot.Enabled = true, want false")
	}

	wantPlotPath := filepath.Join(tempDir, "charts", "sweep.png")
	if cfg.Plot.Path != wantPlotPath {
		t.Errorf("Plot.Path = %q, want %q", cfg.Plot.Path, wantPlotPath)
	}

	if cfg.Plot.DPI != 96 {
		t.Errorf("Plot.DPI = %d, want %d", cfg.Plot.DPI, 96)
	}

	if cfg.History.Path != "/custom/history" {
		t.Errorf("History.Path = %q, want %q", cfg.History.Path, "/custom/history")
	}

	if cfg.History.RetentionDays != 7 {
		t.Errorf("History.RetentionDays = %d, want %d", cfg.History.RetentionDays, 7)
	}
}

func TestLoad_ShardSizesAsString(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `shard_sizes: "2-8:2"`)

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []int{2, 4, 6, 8}
	if len(cfg.ShardSizes) != len(want) {
		t.Fatalf("ShardSizes = %v, want %v", cfg.ShardSizes, want)
	}
	for i := range want {
		if cfg.ShardSizes[i] != want[i] {
			t.Errorf("ShardSizes[%d] = %d, want %d", i, cfg.ShardSizes[i], want[i])
		}
	}
}

func TestLoad_InvalidShardSizesString(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `shard_sizes: "two,four"`)

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for unparsable shard_sizes")
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	xdgConfigDir := filepath.Join(tempDir, "xdg-config", AppName)
	if err := os.MkdirAll(xdgConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create XDG config dir: %v", err)
	}

	configPath := filepath.Join(xdgConfigDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(`honest_nodes: 32`), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HonestNodes != 32 {
		t.Errorf("HonestNodes = %d, want %d", cfg.HonestNodes, 32)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("SHARDSWEEP_HONEST_NODES", "16")
	t.Setenv("SHARDSWEEP_SHARD_SIZES", "2,3")
	t.Setenv("SHARDSWEEP_PLOT_DPI", "72")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HonestNodes != 16 {
		t.Errorf("HonestNodes = %d, want %d", cfg.HonestNodes, 16)
	}

	if len(cfg.ShardSizes) != 2 || cfg.ShardSizes[0] != 2 || cfg.ShardSizes[1] != 3 {
		t.Errorf("ShardSizes = %v, want [2 3]", cfg.ShardSizes)
	}

	if cfg.Plot.DPI != 72 {
		t.Errorf("Plot.DPI = %d, want %d", cfg.Plot.DPI, 72)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("bandwidth: 100\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Bandwidth != 100 {
		t.Errorf("Bandwidth = %v, want %v", cfg.Bandwidth, 100.0)
	}
	if cfg.HonestNodes != DefaultHonestNodes {
		t.Errorf("HonestNodes = %d, want default %d", cfg.HonestNodes, DefaultHonestNodes)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadFile() error = nil, want error for missing explicit file")
	}
}

func TestConfig_SweepInput(t *testing.T) {
	cfg := &Config{ShardSizes: []int{2, 4}, HonestNodes: 8, Bandwidth: 3}

	in := cfg.SweepInput()
	if in.HonestNodes != 8 || in.BandwidthPerShard != 3 {
		t.Errorf("SweepInput() = %+v", in)
	}

	// The input must not alias the config slice.
	in.ShardSizes[0] = 99
	if cfg.ShardSizes[0] != 2 {
		t.Error("SweepInput() shares the ShardSizes backing array with Config")
	}
}

func TestUnmarshal_FlagOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("shard_sizes", "16")
	v.Set("bandwidth", 1.5)

	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(cfg.ShardSizes) != 1 || cfg.ShardSizes[0] != 16 {
		t.Errorf("ShardSizes = %v, want [16]", cfg.ShardSizes)
	}
	if cfg.Bandwidth != 1.5 {
		t.Errorf("Bandwidth = %v, want 1.5", cfg.Bandwidth)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := "/custom/config/shardsweep"
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})

	t.Run("uses HOME/.config when XDG_CONFIG_HOME not set", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := filepath.Join(tempDir, ".config", AppName)
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	t.Run("creates loadable default config file", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		if err := WriteDefault(); err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}

		configPath := filepath.Join(tempDir, ".config", AppName, "config.yaml")
		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file not created: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() after WriteDefault() error = %v", err)
		}
		if cfg.HonestNodes != DefaultHonestNodes {
			t.Errorf("HonestNodes = %d, want %d", cfg.HonestNodes, DefaultHonestNodes)
		}
		if len(cfg.ShardSizes) != len(DefaultShardSizes) {
			t.Errorf("ShardSizes = %v, want %v", cfg.ShardSizes, DefaultShardSizes)
		}
	})

	t.Run("does not overwrite existing config", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		existingContent := "# existing config\nhonest_nodes: 1"
		writeConfig(t, tempDir, existingContent)

		if err := WriteDefault(); err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}

		content, err := os.ReadFile(filepath.Join(tempDir, ".config", AppName, "config.yaml"))
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}

		if string(content) != existingContent {
			t.Errorf("config file was overwritten: got %q, want %q", string(content), existingContent)
		}
	})
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "expands tilde", input: "~/charts/out.png", want: filepath.Join(homeDir, "charts/out.png")},
		{name: "leaves absolute path unchanged", input: "/etc/shardsweep", want: "/etc/shardsweep"},
		{name: "leaves relative path unchanged", input: "./out.png", want: "./out.png"},
		{name: "leaves empty path unchanged", input: "", want: ""},
		{name: "handles tilde only", input: "~", want: homeDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoad_LoggingDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if cfg.Logging.Rotation.MaxSize != "10MB" {
		t.Errorf("Logging.Rotation.MaxSize = %q, want %q", cfg.Logging.Rotation.MaxSize, "10MB")
	}

	if cfg.Logging.Rotation.MaxBackups != 5 {
		t.Errorf("Logging.Rotation.MaxBackups = %d, want %d", cfg.Logging.Rotation.MaxBackups, 5)
	}

	if cfg.Logging.Components["watcher"] != "warn" {
		t.Errorf("Logging.Components[watcher] = %q, want %q", cfg.Logging.Components["watcher"], "warn")
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{"DataDir": DataDir(), "StateDir": StateDir()} {
		if !filepath.IsAbs(dir) {
			t.Errorf("%s() = %q, want absolute path", name, dir)
		}
		if filepath.Base(dir) != AppName {
			t.Errorf("%s() = %q, want path ending in %q", name, dir, AppName)
		}
	}

	if filepath.Dir(DefaultHistoryPath()) != DataDir() {
		t.Errorf("DefaultHistoryPath() = %q, want under %q", DefaultHistoryPath(), DataDir())
	}
	if filepath.Base(DefaultLogPath()) != "shardsweep.log" {
		t.Errorf("DefaultLogPath() = %q, want file shardsweep.log", DefaultLogPath())
	}
}
