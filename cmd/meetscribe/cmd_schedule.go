package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/store"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleAddCmd, scheduleListCmd, scheduleRemoveCmd, scheduleEnableCmd, scheduleDisableCmd)

	scheduleAddCmd.Flags().String("name", "", "meeting name (required)")
	scheduleAddCmd.Flags().String("url", "", "meeting URL (required)")
	scheduleAddCmd.Flags().String("cron", "", "cron schedule expression (required)")
	scheduleAddCmd.Flags().String("display-name", "", "display name override for this meeting")
	scheduleAddCmd.Flags().String("stay", "", "how long to remain in the meeting, e.g. 45m")
	_ = scheduleAddCmd.MarkFlagRequired("name")
	_ = scheduleAddCmd.MarkFlagRequired("url")
	_ = scheduleAddCmd.MarkFlagRequired("cron")
}

func scheduleStore() *store.ScheduleStore {
	return store.NewScheduleStore(schedulePath())
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring meetings",
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring meeting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		url, _ := cmd.Flags().GetString("url")
		cronExpr, _ := cmd.Flags().GetString("cron")
		displayName, _ := cmd.Flags().GetString("display-name")
		stay, _ := cmd.Flags().GetString("stay")

		st := scheduleStore()
		meeting := &store.Meeting{
			Name:        name,
			URL:         url,
			DisplayName: displayName,
			Schedule:    cronExpr,
			Stay:        stay,
			Enabled:     true,
		}
		if err := st.Add(meeting); err != nil {
			return fmt.Errorf("add meeting: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Meeting %q added.\n", name)
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring meetings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := scheduleStore()
		meetings, err := st.List()
		if err != nil {
			return fmt.Errorf("list meetings: %w", err)
		}

		if len(meetings) == 0 {
			fmt.Println("No meetings scheduled.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCHEDULE\tSTAY\tENABLED\tURL")
		for _, m := range meetings {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
				m.Name,
				m.Schedule,
				m.Stay,
				m.Enabled,
				m.URL,
			)
		}
		return w.Flush()
	},
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a recurring meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := scheduleStore()
		if err := st.Remove(args[0]); err != nil {
			return fmt.Errorf("remove meeting: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Meeting %q removed.\n", args[0])
		return nil
	},
}

var scheduleEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a recurring meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := scheduleStore()
		if err := st.SetEnabled(args[0], true); err != nil {
			return fmt.Errorf("enable meeting: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Meeting %q enabled.\n", args[0])
		return nil
	},
}

var scheduleDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a recurring meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := scheduleStore()
		if err := st.SetEnabled(args[0], false); err != nil {
			return fmt.Errorf("disable meeting: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Meeting %q disabled.\n", args[0])
		return nil
	},
}
