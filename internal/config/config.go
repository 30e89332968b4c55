package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OutputDir string `json:"output_dir"`
	LogLevel  string `json:"log_level"`
	Browser   struct {
		ExecPath string `json:"exec_path"`
		Headless bool   `json:"headless"`
	} `json:"browser"`
	Meeting struct {
		URL         string `json:"url"`
		DisplayName string `json:"display_name"`
	} `json:"meeting"`
	Capture struct {
		Audio        bool `json:"audio"`
		Participants bool `json:"participants"`
		Captions     bool `json:"captions"`
	} `json:"capture"`
	Watch struct {
		MaxConcurrent int    `json:"max_concurrent"`
		DefaultStay   string `json:"default_stay"`
	} `json:"watch"`
}

func Load(path string) (*Config, error) {
	// A .env file next to the binary is a convenience for development;
	// missing is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		OutputDir: filepath.Join(os.Getenv("HOME"), ".meetscribe", "sessions"),
		LogLevel:  "info",
	}
	cfg.Browser.Headless = true
	cfg.Meeting.DisplayName = "Meetscribe Notetaker"
	cfg.Capture.Audio = true
	cfg.Capture.Participants = true
	cfg.Capture.Captions = true
	cfg.Watch.MaxConcurrent = 2
	cfg.Watch.DefaultStay = "1h"

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if dir := os.Getenv("MEETSCRIBE_OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}
	if level := os.Getenv("MEETSCRIBE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if url := os.Getenv("MEETSCRIBE_MEETING_URL"); url != "" {
		cfg.Meeting.URL = url
	}
	if name := os.Getenv("MEETSCRIBE_DISPLAY_NAME"); name != "" {
		cfg.Meeting.DisplayName = name
	}
	if execPath := os.Getenv("MEETSCRIBE_BROWSER_PATH"); execPath != "" {
		cfg.Browser.ExecPath = execPath
	}
	if headless := os.Getenv("MEETSCRIBE_HEADLESS"); headless != "" {
		if v, err := strconv.ParseBool(headless); err == nil {
			cfg.Browser.Headless = v
		}
	}

	return cfg, nil
}

// Save writes the config as indented JSON via a temp-file rename.
func Save(path string, cfg *Config) error {
	return writeDefaults(path, cfg)
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
