package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/store"
	"github.com/user/meetscribe/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsClearCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage captured sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured sessions and their artifacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		sessions, err := store.ListSessions(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCAPTIONS\tPARTICIPANTS\tAUDIO\tLAST WRITE")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%s\n",
				s.ID,
				s.Captions,
				s.Participants,
				s.HasAudio,
				s.ModTime.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the roster and captions of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		id := args[0]

		names, err := store.ReadRoster(filepath.Join(cfg.OutputDir, id+"_participants.json"))
		if err == nil && len(names) > 0 {
			fmt.Println("Participants:")
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
			fmt.Println()
		}

		events, err := store.ReadCaptions(filepath.Join(cfg.OutputDir, id+"_captions.json"))
		if err != nil {
			return fmt.Errorf("read captions: %w", err)
		}
		for _, e := range events {
			fmt.Printf("[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Speaker, e.Text)
		}
		return nil
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear <id>",
	Short: "Delete all artifacts of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if err := store.ClearSession(cfg.OutputDir, types.SessionID(args[0])); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Session %s cleared.\n", args[0])
		return nil
	},
}
