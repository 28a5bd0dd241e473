// Package models defines the core domain types for Cadence.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// EventType classifies a calendar event.
type EventType string

const (
	EventTypeMeeting  EventType = "meeting"
	EventTypeFollowUp EventType = "follow-up"
	EventTypeOther    EventType = "other"
)

// Meeting is a recorded meeting with its agenda.
type Meeting struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Date        Date         `json:"date"`
	Attendees   []string     `json:"attendees"`
	AgendaItems []AgendaItem `json:"agenda_items"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// AgendaItem is a discrete topic within a meeting. Each item derives exactly
// one task at creation time and may later receive a calendar placement.
type AgendaItem struct {
	ID            string    `json:"id"`
	MeetingID     string    `json:"meeting_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DurationMin   int       `json:"duration"`
	Position      int       `json:"position"`
	ScheduledDate *Date     `json:"scheduled_date,omitempty"`
	Task          *Task     `json:"task,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Task is the unit of follow-up work derived from an agenda item.
// Status and Progress are kept mutually consistent: completed means 100,
// todo means 0, anything strictly between forces in_progress.
type Task struct {
	ID           string     `json:"id"`
	AgendaItemID string     `json:"agenda_item_id"`
	Title        string     `json:"title"`
	Assignee     string     `json:"assignee"`
	Deadline     Date       `json:"deadline"`
	Status       TaskStatus `json:"status"`
	Progress     int        `json:"progress"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CalendarEvent is a placed slot on the calendar. MeetingID and AgendaItemID
// are weak back-references to the originating entities; deleting the meeting
// removes the event, never the other way around.
type CalendarEvent struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Date         Date      `json:"date"`
	StartMinute  int       `json:"start_minute"`
	DurationMin  int       `json:"duration"`
	Type         EventType `json:"event_type"`
	Notes        string    `json:"notes,omitempty"`
	MeetingID    string    `json:"meeting_id,omitempty"`
	AgendaItemID string    `json:"agenda_item_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EndMinute returns the exclusive end of the event's time window.
func (e CalendarEvent) EndMinute() int {
	return e.StartMinute + e.DurationMin
}

// Overlaps reports whether two events occupy intersecting half-open windows
// on the same day.
func (e CalendarEvent) Overlaps(o CalendarEvent) bool {
	if !e.Date.Equal(o.Date) {
		return false
	}
	return e.StartMinute < o.EndMinute() && o.StartMinute < e.EndMinute()
}

// Summary is a transient projection of the store's current contents.
type Summary struct {
	TotalMeetings       int     `json:"total_meetings"`
	TotalCalendarEvents int     `json:"total_calendar_events"`
	TotalTasks          int     `json:"total_tasks"`
	TasksCompleted      int     `json:"tasks_completed"`
	TasksInProgress     int     `json:"tasks_in_progress"`
	TasksTodo           int     `json:"tasks_todo"`
	CompletionRate      float64 `json:"completion_rate"`
}

// AuditEntry records a single engine mutation for the activity log.
type AuditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
