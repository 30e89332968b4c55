package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/meetscribe/internal/config"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("Meetscribe Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		// 1. Default meeting URL
		cfg.Meeting.URL = prompt(scanner, "Default meeting URL (optional)", cfg.Meeting.URL)

		// 2. Display name the agent joins with
		cfg.Meeting.DisplayName = prompt(scanner, "Display name", cfg.Meeting.DisplayName)

		// 3. Output directory
		cfg.OutputDir = prompt(scanner, "Session output directory", cfg.OutputDir)

		// 4. Headless
		headlessStr := prompt(scanner, "Run browser headless (true/false)", strconv.FormatBool(cfg.Browser.Headless))
		if b, err := strconv.ParseBool(headlessStr); err == nil {
			cfg.Browser.Headless = b
		}

		// 5. Browser executable (optional)
		cfg.Browser.ExecPath = prompt(scanner, "Browser executable path (optional)", cfg.Browser.ExecPath)

		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
