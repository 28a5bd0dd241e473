package main

import (
	"github.com/spf13/cobra"

	"github.com/fentz26/cadence/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := tui.New(apiAddr)
		return app.Run()
	},
}
