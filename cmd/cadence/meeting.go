package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/cadence/internal/models"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Manage meetings and their agendas",
}

var meetingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new meeting",
	RunE:  runMeetingAdd,
}

var meetingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meetings",
	RunE:  runMeetingList,
}

var meetingShowCmd = &cobra.Command{
	Use:   "show [meeting-id]",
	Short: "Show a meeting with its agenda",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingShow,
}

var meetingRmCmd = &cobra.Command{
	Use:   "rm [meeting-id]",
	Short: "Delete a meeting and everything derived from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingRm,
}

var meetingAgendaCmd = &cobra.Command{
	Use:   "agenda [meeting-id]",
	Short: "Add an agenda item to a meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingAgenda,
}

var meetingScheduleCmd = &cobra.Command{
	Use:   "schedule [meeting-id]",
	Short: "Auto-schedule the meeting's unplaced agenda items",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingSchedule,
}

var (
	meetingTitle     string
	meetingDate      string
	meetingAttendees []string
	itemTitle        string
	itemDesc         string
	itemDuration     int
)

func init() {
	meetingCmd.AddCommand(meetingAddCmd, meetingListCmd, meetingShowCmd, meetingRmCmd, meetingAgendaCmd, meetingScheduleCmd)

	meetingAddCmd.Flags().StringVar(&meetingTitle, "title", "", "Meeting title (required)")
	meetingAddCmd.Flags().StringVar(&meetingDate, "date", "", "Meeting date, YYYY-MM-DD (required)")
	meetingAddCmd.Flags().StringSliceVar(&meetingAttendees, "attendees", nil, "Comma-separated attendee names (required)")
	meetingAddCmd.MarkFlagRequired("title")
	meetingAddCmd.MarkFlagRequired("date")
	meetingAddCmd.MarkFlagRequired("attendees")

	meetingAgendaCmd.Flags().StringVar(&itemTitle, "title", "", "Agenda item title (required)")
	meetingAgendaCmd.Flags().StringVar(&itemDesc, "desc", "", "Agenda item description")
	meetingAgendaCmd.Flags().IntVar(&itemDuration, "duration", 30, "Duration in minutes")
	meetingAgendaCmd.MarkFlagRequired("title")
}

func runMeetingAdd(cmd *cobra.Command, args []string) error {
	body := map[string]interface{}{
		"title":     meetingTitle,
		"date":      meetingDate,
		"attendees": meetingAttendees,
	}

	resp, err := apiPost("/api/meetings", body)
	if err != nil {
		return err
	}

	var meeting models.Meeting
	if err := json.Unmarshal(resp, &meeting); err != nil {
		return err
	}

	fmt.Printf("Created meeting: %s\n", meeting.ID)
	return nil
}

func runMeetingList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/meetings")
	if err != nil {
		return err
	}

	var meetings []models.Meeting
	if err := json.Unmarshal(resp, &meetings); err != nil {
		return err
	}

	if len(meetings) == 0 {
		fmt.Println("No meetings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tATTENDEES\tITEMS")
	for _, m := range meetings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			truncateID(m.ID), m.Date, m.Title,
			strings.Join(m.Attendees, ","), len(m.AgendaItems))
	}
	return w.Flush()
}

func runMeetingShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/meetings/" + args[0])
	if err != nil {
		return err
	}

	var m models.Meeting
	if err := json.Unmarshal(resp, &m); err != nil {
		return err
	}

	fmt.Printf("Meeting:   %s\n", m.Title)
	fmt.Printf("ID:        %s\n", m.ID)
	fmt.Printf("Date:      %s\n", m.Date)
	fmt.Printf("Attendees: %s\n", strings.Join(m.Attendees, ", "))
	if m.Notes != "" {
		fmt.Printf("Notes:     %s\n", m.Notes)
	}

	if len(m.AgendaItems) == 0 {
		fmt.Println("\nNo agenda items")
		return nil
	}

	fmt.Println("\nAgenda:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tTITLE\tDURATION\tSCHEDULED\tTASK")
	for _, item := range m.AgendaItems {
		scheduled := "-"
		if item.ScheduledDate != nil {
			scheduled = item.ScheduledDate.String()
		}
		task := "-"
		if item.Task != nil {
			task = fmt.Sprintf("%s %s/%d%%", truncateID(item.Task.ID), item.Task.Status, item.Task.Progress)
		}
		fmt.Fprintf(w, "  %d\t%s\t%d min\t%s\t%s\n",
			item.Position+1, item.Title, item.DurationMin, scheduled, task)
	}
	return w.Flush()
}

func runMeetingRm(cmd *cobra.Command, args []string) error {
	if _, err := apiDo("DELETE", "/api/meetings/"+args[0], nil); err != nil {
		return err
	}
	fmt.Println("Meeting deleted")
	return nil
}

func runMeetingAgenda(cmd *cobra.Command, args []string) error {
	body := map[string]interface{}{
		"meeting_id":  args[0],
		"title":       itemTitle,
		"description": itemDesc,
		"duration":    itemDuration,
	}

	resp, err := apiPost("/api/agenda-items", body)
	if err != nil {
		return err
	}

	var item models.AgendaItem
	if err := json.Unmarshal(resp, &item); err != nil {
		return err
	}

	fmt.Printf("Added agenda item: %s\n", item.ID)
	if item.Task != nil {
		fmt.Printf("Derived task:      %s (assignee: %s, due %s)\n",
			item.Task.ID, item.Task.Assignee, item.Task.Deadline)
	}
	return nil
}

func runMeetingSchedule(cmd *cobra.Command, args []string) error {
	resp, err := apiPost("/api/meetings/"+args[0]+"/auto-schedule", nil)
	if err != nil {
		return err
	}

	var events []models.CalendarEvent
	if err := json.Unmarshal(resp, &events); err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("Nothing to schedule: all agenda items are already placed")
		return nil
	}

	fmt.Printf("Scheduled %d events:\n", len(events))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range events {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d min\n",
			e.Date, formatMinute(e.StartMinute), e.Title, e.DurationMin)
	}
	return w.Flush()
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
