package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "meetscribe",
	Short: "Unattended meeting capture agent",
	Long:  "meetscribe joins a video meeting as a silent participant and records captions, the participant roster, and audio.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config file path")
}

func defaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".meetscribe", "config.json")
}

// loadConfig loads the config file, exiting on failure. Commands call this
// at the top of their RunE so flag parsing errors surface first.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
