package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/cadence/internal/models"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Inspect and export the calendar",
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendar events",
	RunE:  runCalendarList,
}

var calendarExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the calendar as an iCalendar file",
	RunE:  runCalendarExport,
}

var exportPath string

func init() {
	calendarCmd.AddCommand(calendarListCmd, calendarExportCmd)

	calendarExportCmd.Flags().StringVar(&exportPath, "out", "cadence.ics", "Output file path (- for stdout)")
}

func runCalendarList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/calendar-events")
	if err != nil {
		return err
	}

	var events []models.CalendarEvent
	if err := json.Unmarshal(resp, &events); err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No calendar events")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSTART\tEND\tTYPE\tTITLE")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(e.ID), e.Date,
			formatMinute(e.StartMinute), formatMinute(e.EndMinute()),
			e.Type, e.Title)
	}
	return w.Flush()
}

func runCalendarExport(cmd *cobra.Command, args []string) error {
	data, err := apiGet("/api/calendar-events/export.ics")
	if err != nil {
		return err
	}

	if exportPath == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(exportPath, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", exportPath)
	return nil
}
