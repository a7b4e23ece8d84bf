// councilctl drives a council API server from the command line: health
// checks and one-shot deliberations in the supported modes.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"council-chamber/pkg/client"
)

var (
	serverURL string
	timeout   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "councilctl",
		Short:         "Interact with a Council Chamber API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3001", "council API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "how long to wait for a deliberation")

	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(deliberateCmd("deliberate", "deliberation", "RESULT"))
	rootCmd.AddCommand(deliberateCmd("legislative", "legislative", "FINAL RULING"))
	rootCmd.AddCommand(deliberateCmd("research", "research", "RESEARCH DOSSIER"))
	rootCmd.AddCommand(deliberateCmd("prediction", "prediction", "FINAL PREDICTION"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the council server is running",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.New(serverURL)
			if err := c.Health(cmd.Context()); err != nil {
				return fmt.Errorf("council server is not responding: %w", err)
			}
			fmt.Println("council server is running")
			return nil
		},
	}
}

func deliberateCmd(use, mode, banner string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <topic>",
		Short: fmt.Sprintf("Run a %s session on a topic and print the outcome", mode),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")

			// Research sessions dig deeper and run longer by default.
			waitFor := timeout
			if mode == "research" && !cmd.Flags().Changed("timeout") {
				waitFor = 10 * time.Minute
			}

			c := client.New(serverURL)
			result, err := c.QuickDeliberate(cmd.Context(), topic, mode, waitFor)
			if err != nil {
				return fmt.Errorf("%s session failed: %w", mode, err)
			}
			if result == nil {
				return fmt.Errorf("%s session produced no messages", mode)
			}

			printResult(banner, result)
			return nil
		},
	}
}

func printResult(banner string, result *client.Result) {
	rule := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("%s from %s:\n", banner, result.Author)
	fmt.Println(rule)
	fmt.Println(result.Content)
	fmt.Println(rule)
	fmt.Println()
}
