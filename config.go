package main

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration, loaded from config.yaml
type Config struct {
	DataDir         string `yaml:"data_dir"`
	SoundDir        string `yaml:"sound_dir"`
	GoalSteps       int    `yaml:"goal_steps"`
	WalkGoalMinutes int    `yaml:"walk_goal_minutes"`
	AutoStart       bool   `yaml:"auto_start"`
	Pedometer       string `yaml:"pedometer"` // "manual" or "none"
}

func defaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir:   filepath.Join(home, ".wakewalk"),
		SoundDir:  "sounds",
		Pedometer: "manual",
	}
}

// loadConfig reads config.yaml, falling back to defaults when the file is
// missing or unreadable. Zero-valued fields are filled from defaults so a
// partial config file is fine.
func loadConfig(path string) *Config {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read config from %s: %v", path, err)
		}
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("Warning: invalid config in %s: %v", path, err)
		return defaultConfig()
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultConfig().DataDir
	}
	if cfg.SoundDir == "" {
		cfg.SoundDir = defaultConfig().SoundDir
	}
	if cfg.Pedometer == "" {
		cfg.Pedometer = defaultConfig().Pedometer
	}

	log.Printf("Loaded configuration from %s", path)
	return cfg
}
