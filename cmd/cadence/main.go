package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - meeting, task and calendar coordination",
	Long:  `Cadence keeps meetings, their agenda-derived tasks, and the calendar consistent, and auto-schedules agenda items into conflict-free slots.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:7467", "API server address")

	// Add subcommands
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(meetingCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
