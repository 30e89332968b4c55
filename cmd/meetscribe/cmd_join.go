package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/audio"
	"github.com/user/meetscribe/internal/captions"
	"github.com/user/meetscribe/internal/engine"
	"github.com/user/meetscribe/internal/meet"
	"github.com/user/meetscribe/internal/roster"
	"github.com/user/meetscribe/internal/store"
	"github.com/user/meetscribe/internal/types"
)

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().String("url", "", "meeting URL (defaults to meeting.url from config)")
	joinCmd.Flags().String("name", "", "display name to join with")
	joinCmd.Flags().Bool("headless", true, "run the browser headless")
	joinCmd.Flags().String("browser", "", "browser executable path override")
	joinCmd.Flags().String("out", "", "session output directory")
	joinCmd.Flags().Bool("no-audio", false, "disable audio capture")
	joinCmd.Flags().Bool("no-participants", false, "disable the participant snapshot")
	joinCmd.Flags().Bool("no-captions", false, "disable caption capture")
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join a meeting and capture it until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = cfg.Meeting.URL
		}
		if url == "" {
			return fmt.Errorf("no meeting URL: pass --url or set meeting.url in the config")
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = cfg.Meeting.DisplayName
		}

		headless := cfg.Browser.Headless
		if cmd.Flags().Changed("headless") {
			headless, _ = cmd.Flags().GetBool("headless")
		}

		execPath, _ := cmd.Flags().GetString("browser")
		if execPath == "" {
			execPath = cfg.Browser.ExecPath
		}

		outputDir, _ := cmd.Flags().GetString("out")
		if outputDir == "" {
			outputDir = cfg.OutputDir
		}

		noAudio, _ := cmd.Flags().GetBool("no-audio")
		noParticipants, _ := cmd.Flags().GetBool("no-participants")
		noCaptions, _ := cmd.Flags().GetBool("no-captions")

		toggles := types.Toggles{
			Audio:        cfg.Capture.Audio && !noAudio,
			Participants: cfg.Capture.Participants && !noParticipants,
			Captions:     cfg.Capture.Captions && !noCaptions,
		}

		session := types.NewSession(url, name, toggles, outputDir)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// First signal starts teardown by cancelling the run; a second one
		// lands on the same cancel and is absorbed.
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return runSession(ctx, session, browserOptions{headless: headless, execPath: execPath})
	},
}

type browserOptions struct {
	headless bool
	execPath string
}

// runSession launches the browser and runs one full capture session. It is
// shared by the join command and the watch daemon's scheduled runs.
func runSession(ctx context.Context, session *types.Session, browser browserOptions) error {
	if err := os.MkdirAll(session.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// The driver owns the browser's lifetime; ctx bounds the run, and the
	// engine's teardown closes the browser after the graceful leave.
	driver, err := meet.NewChromeDriver(meet.Options{
		Headless: browser.headless,
		ExecPath: browser.execPath,
	})
	if err != nil {
		return err
	}

	st := store.New(session)

	opts := engine.Options{
		Session:    session,
		Controller: meet.NewController(driver, session),
		Sink:       st,
	}
	if session.Toggles.Captions {
		opts.Captions = captions.New(driver, st)
	}
	if session.Toggles.Participants {
		opts.Roster = roster.New(driver, meet.PeopleButtonChain(), meet.ParticipantNamesChain())
	}
	if session.Toggles.Audio {
		opts.Audio = audio.NewSupervisor(session.AudioPath())
	}

	return engine.New(opts).Run(ctx)
}
