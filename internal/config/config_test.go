package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaultsLoad(t *testing.T) {
	resetViper(t)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Key != "tasks" {
		t.Errorf("expected default key tasks, got %q", cfg.Storage.Key)
	}
	if cfg.UI.Theme != "nord" {
		t.Errorf("expected nord theme, got %q", cfg.UI.Theme)
	}
	if cfg.Logging.Enabled || cfg.Notifications.Enabled {
		t.Error("logging and notifications should default off")
	}
	if filepath.Base(cfg.Storage.Path) != "tickoff.db" {
		t.Errorf("unexpected default path %q", cfg.Storage.Path)
	}
}

func TestLoadFromFile(t *testing.T) {
	resetViper(t)
	SetDefaults()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  path: ` + filepath.Join(dir, "data", "t.db") + `
  key: work
ui:
  theme: dracula
logging:
  enabled: true
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Key != "work" || cfg.UI.Theme != "dracula" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "debug" {
		t.Errorf("logging not applied: %+v", cfg.Logging)
	}
	if cfg.DataDir() != filepath.Join(dir, "data") {
		t.Errorf("unexpected data dir %q", cfg.DataDir())
	}
	if cfg.Notifications.Enabled {
		t.Error("unset keys should keep defaults")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Storage.Key = " "
	cfg.UI.Theme = "solarized"
	cfg.Logging.Level = "loud"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}

	msg := ValidationErrors(errs).Error()
	for _, want := range []string{"storage.key", "ui.theme", "logging.level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %s: %s", want, msg)
		}
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	resetViper(t)
	SetDefaults()
	viper.Set("ui.theme", "neon")

	_, err := Load()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("unexpected expansion %q", got)
	}

	t.Setenv("TICKOFF_TEST_DIR", "/tmp/tk")
	if got := ExpandPath("$TICKOFF_TEST_DIR/t.db"); got != "/tmp/tk/t.db" {
		t.Errorf("unexpected env expansion %q", got)
	}
	if ExpandPath("") != "" {
		t.Error("empty path should stay empty")
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/tickoff" {
		t.Errorf("unexpected config dir %q", got)
	}
	if got := ConfigFile(); got != "/tmp/xdg/tickoff/config.yaml" {
		t.Errorf("unexpected config file %q", got)
	}
}
