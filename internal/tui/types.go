package tui

// TaskRow is a summary of a task for the list view
type TaskRow struct {
	ID       string
	Title    string
	Assignee string
	Status   string
	Progress int
	Deadline string
}

// MeetingRow is a summary of a meeting for the list view
type MeetingRow struct {
	ID        string
	Title     string
	Date      string
	Attendees []string
	ItemCount int
	Placed    int
}

// EventRow is a summary of a calendar event for the list view
type EventRow struct {
	ID       string
	Title    string
	Date     string
	Start    int
	Duration int
	Type     string
}

// SummaryInfo mirrors the dashboard counters
type SummaryInfo struct {
	TotalMeetings  int
	TotalEvents    int
	TotalTasks     int
	Completed      int
	InProgress     int
	Todo           int
	CompletionRate float64
}
