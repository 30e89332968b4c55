package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/runner"
	"github.com/user/meetscribe/internal/schedule"
	"github.com/user/meetscribe/internal/store"
	"github.com/user/meetscribe/internal/types"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the scheduler daemon, joining meetings on their cron schedules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		scheduleStore := store.NewScheduleStore(schedulePath())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		run := runner.New(int64(cfg.Watch.MaxConcurrent), func(runCtx context.Context, m *store.Meeting) error {
			name := m.DisplayName
			if name == "" {
				name = cfg.Meeting.DisplayName
			}
			toggles := types.Toggles{
				Audio:        cfg.Capture.Audio,
				Participants: cfg.Capture.Participants,
				Captions:     cfg.Capture.Captions,
			}
			session := types.NewSession(m.URL, name, toggles, cfg.OutputDir)
			return runSession(runCtx, session, browserOptions{
				headless: cfg.Browser.Headless,
				execPath: cfg.Browser.ExecPath,
			})
		})
		run.Start(ctx)
		defer run.Stop()

		sched := schedule.New(scheduleStore, func(m *store.Meeting) {
			// Meetings without their own stay duration get the
			// configured default.
			if m.Stay == "" {
				fired := *m
				fired.Stay = cfg.Watch.DefaultStay
				m = &fired
			}
			run.Trigger(m)
		})
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop()

		slog.Info("meetscribe watch started",
			"schedule_file", scheduleStore.Path(),
			"output_dir", cfg.OutputDir,
			"max_concurrent", cfg.Watch.MaxConcurrent,
		)

		// SIGHUP re-reads the schedule file; SIGINT/SIGTERM stop the daemon.
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		for sig := range sigChan {
			if sig == syscall.SIGHUP {
				slog.Info("reloading schedule", "schedule_file", scheduleStore.Path())
				if err := sched.Reload(); err != nil {
					slog.Error("reload schedule", "error", err)
				}
				continue
			}
			break
		}

		slog.Info("shutting down")
		cancel()
		if !run.WaitIdle(30 * time.Second) {
			slog.Warn("sessions still draining at shutdown", "active", run.Active())
		}
		return nil
	},
}

// schedulePath puts the schedule file next to the config file.
func schedulePath() string {
	return filepath.Join(filepath.Dir(cfgPath), "schedule.json")
}
