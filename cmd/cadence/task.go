package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/cadence/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks derived from agenda items",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task's status, progress or notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUpdate,
}

var (
	taskStatus   string
	taskAssignee string
	newStatus    string
	newProgress  int
	newNotes     string
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskUpdateCmd)

	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (todo, in_progress, completed)")
	taskListCmd.Flags().StringVar(&taskAssignee, "assignee", "", "Filter by assignee")

	taskUpdateCmd.Flags().StringVar(&newStatus, "status", "", "New status (todo, in_progress, completed)")
	taskUpdateCmd.Flags().IntVar(&newProgress, "progress", -1, "New progress (0-100)")
	taskUpdateCmd.Flags().StringVar(&newNotes, "notes", "", "New notes")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	url := "/api/tasks"
	sep := "?"
	if taskStatus != "" {
		url += sep + "status=" + taskStatus
		sep = "&"
	}
	if taskAssignee != "" {
		url += sep + "assignee=" + taskAssignee
	}

	resp, err := apiGet(url)
	if err != nil {
		return err
	}

	var tasks []models.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tASSIGNEE\tSTATUS\tPROGRESS\tDEADLINE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			truncateID(t.ID), t.Title, t.Assignee, t.Status, t.Progress, t.Deadline)
	}
	return w.Flush()
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/api/tasks/" + args[0])
	if err != nil {
		return err
	}

	var t models.Task
	if err := json.Unmarshal(resp, &t); err != nil {
		return err
	}

	fmt.Printf("Task:     %s\n", t.Title)
	fmt.Printf("ID:       %s\n", t.ID)
	fmt.Printf("Assignee: %s\n", t.Assignee)
	fmt.Printf("Status:   %s (%d%%)\n", t.Status, t.Progress)
	fmt.Printf("Deadline: %s\n", t.Deadline)
	if t.Notes != "" {
		fmt.Printf("Notes:    %s\n", t.Notes)
	}
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	body := map[string]interface{}{}
	if cmd.Flags().Changed("status") {
		body["status"] = newStatus
	}
	if cmd.Flags().Changed("progress") {
		body["progress"] = newProgress
	}
	if cmd.Flags().Changed("notes") {
		body["notes"] = newNotes
	}
	if len(body) == 0 {
		return fmt.Errorf("nothing to update: pass --status, --progress or --notes")
	}

	resp, err := apiDo("PATCH", "/api/tasks/"+args[0], body)
	if err != nil {
		return err
	}

	var t models.Task
	if err := json.Unmarshal(resp, &t); err != nil {
		return err
	}

	fmt.Printf("Updated task %s: %s (%d%%)\n", truncateID(t.ID), t.Status, t.Progress)
	return nil
}
