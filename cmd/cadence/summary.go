package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/cadence/internal/models"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard summary",
	RunE:  runSummary,
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent activity",
	RunE:  runActivity,
}

var activityLimit int

func init() {
	activityCmd.Flags().IntVar(&activityLimit, "limit", 20, "Maximum number of entries")
}

func runSummary(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/summary")
	if err != nil {
		return err
	}

	var s models.Summary
	if err := json.Unmarshal(resp, &s); err != nil {
		return err
	}

	fmt.Printf("Meetings:        %d\n", s.TotalMeetings)
	fmt.Printf("Calendar events: %d\n", s.TotalCalendarEvents)
	fmt.Printf("Tasks:           %d (todo %d, in progress %d, completed %d)\n",
		s.TotalTasks, s.TasksTodo, s.TasksInProgress, s.TasksCompleted)
	fmt.Printf("Completion:      %.1f%%\n", s.CompletionRate)
	return nil
}

func runActivity(cmd *cobra.Command, args []string) error {
	resp, err := apiGet(fmt.Sprintf("/api/activity?limit=%d", activityLimit))
	if err != nil {
		return err
	}

	var entries []models.AuditEntry
	if err := json.Unmarshal(resp, &entries); err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No activity recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tENTITY\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.Action, truncateID(e.EntityID), e.Detail)
	}
	return w.Flush()
}
