package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	want := defaultConfig()
	if cfg.DataDir != want.DataDir || cfg.SoundDir != want.SoundDir {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigPartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, "goal_steps: 250\n")
	cfg := loadConfig(path)

	if cfg.GoalSteps != 250 {
		t.Errorf("Expected goal_steps 250, got %d", cfg.GoalSteps)
	}
	if cfg.DataDir == "" || cfg.SoundDir == "" {
		t.Errorf("Expected defaulted paths, got %+v", cfg)
	}
	if cfg.Pedometer != "manual" {
		t.Errorf("Expected defaulted pedometer, got %q", cfg.Pedometer)
	}
}

func TestLoadConfigInvalidYAMLUsesDefaults(t *testing.T) {
	path := writeConfig(t, "goal_steps: [not a number\n")
	cfg := loadConfig(path)

	if cfg.GoalSteps != 0 {
		t.Errorf("Expected defaults after parse failure, got %+v", cfg)
	}
}

func TestLoadConfigFullFile(t *testing.T) {
	path := writeConfig(t, `data_dir: /tmp/ww
sound_dir: /tmp/sounds
goal_steps: 150
walk_goal_minutes: 45
auto_start: true
pedometer: none
`)
	cfg := loadConfig(path)

	if cfg.DataDir != "/tmp/ww" || cfg.SoundDir != "/tmp/sounds" {
		t.Errorf("Paths not loaded: %+v", cfg)
	}
	if cfg.GoalSteps != 150 || cfg.WalkGoalMinutes != 45 || !cfg.AutoStart {
		t.Errorf("Values not loaded: %+v", cfg)
	}
	if cfg.Pedometer != "none" {
		t.Errorf("Pedometer not loaded: %q", cfg.Pedometer)
	}
}
