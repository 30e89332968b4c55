package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/audio"
	"github.com/user/meetscribe/internal/config"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// browserCandidates are tried in order when no executable is configured;
// chromedp probes the same set at launch.
var browserCandidates = []string{
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the environment can run a capture session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		failures := 0
		check := func(name string, err error) {
			if err != nil {
				failures++
				fmt.Fprintf(os.Stdout, "FAIL  %s: %v\n", name, err)
				return
			}
			fmt.Fprintf(os.Stdout, "ok    %s\n", name)
		}

		check("ffmpeg on PATH", audio.CheckFFmpeg())
		check("browser executable", checkBrowser(cfg))
		check("output directory writable", checkOutputDir(cfg.OutputDir))

		// A missing default URL is fine when joins always pass --url.
		if cfg.Meeting.URL == "" {
			fmt.Fprintln(os.Stdout, "note  meeting.url is empty; join will require --url")
		} else {
			fmt.Fprintln(os.Stdout, "ok    default meeting URL configured")
		}

		if failures > 0 {
			return fmt.Errorf("%d check(s) failed", failures)
		}
		fmt.Println("All checks passed.")
		return nil
	},
}

func checkBrowser(cfg *config.Config) error {
	if cfg.Browser.ExecPath != "" {
		if _, err := os.Stat(cfg.Browser.ExecPath); err != nil {
			return fmt.Errorf("configured browser not found: %s", cfg.Browser.ExecPath)
		}
		return nil
	}
	for _, name := range browserCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no browser found on PATH; set browser.exec_path")
}

func checkOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok\n"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}
