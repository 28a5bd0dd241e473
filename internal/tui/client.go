package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to the Cadence API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// ListTasks fetches tasks from the API
func (c *Client) ListTasks(status string) ([]TaskRow, error) {
	u := c.baseURL + "/api/tasks"
	if status != "" {
		u += "?status=" + url.QueryEscape(status)
	}

	resp, err := c.httpClient.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var tasks []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Assignee string `json:"assignee"`
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Deadline string `json:"deadline"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, err
	}

	rows := make([]TaskRow, len(tasks))
	for i, t := range tasks {
		rows[i] = TaskRow{
			ID:       t.ID,
			Title:    t.Title,
			Assignee: t.Assignee,
			Status:   t.Status,
			Progress: t.Progress,
			Deadline: t.Deadline,
		}
	}
	return rows, nil
}

// ListMeetings fetches meetings from the API
func (c *Client) ListMeetings() ([]MeetingRow, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/meetings")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var meetings []struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Date        string   `json:"date"`
		Attendees   []string `json:"attendees"`
		AgendaItems []struct {
			ScheduledDate *string `json:"scheduled_date"`
		} `json:"agenda_items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meetings); err != nil {
		return nil, err
	}

	rows := make([]MeetingRow, len(meetings))
	for i, m := range meetings {
		placed := 0
		for _, item := range m.AgendaItems {
			if item.ScheduledDate != nil {
				placed++
			}
		}
		rows[i] = MeetingRow{
			ID:        m.ID,
			Title:     m.Title,
			Date:      m.Date,
			Attendees: m.Attendees,
			ItemCount: len(m.AgendaItems),
			Placed:    placed,
		}
	}
	return rows, nil
}

// ListEvents fetches calendar events from the API
func (c *Client) ListEvents() ([]EventRow, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/calendar-events")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var events []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Date        string `json:"date"`
		StartMinute int    `json:"start_minute"`
		Duration    int    `json:"duration"`
		EventType   string `json:"event_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}

	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = EventRow{
			ID:       e.ID,
			Title:    e.Title,
			Date:     e.Date,
			Start:    e.StartMinute,
			Duration: e.Duration,
			Type:     e.EventType,
		}
	}
	return rows, nil
}

// GetSummary fetches the dashboard counters
func (c *Client) GetSummary() (*SummaryInfo, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/summary")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var summary struct {
		TotalMeetings       int     `json:"total_meetings"`
		TotalCalendarEvents int     `json:"total_calendar_events"`
		TotalTasks          int     `json:"total_tasks"`
		TasksCompleted      int     `json:"tasks_completed"`
		TasksInProgress     int     `json:"tasks_in_progress"`
		TasksTodo           int     `json:"tasks_todo"`
		CompletionRate      float64 `json:"completion_rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, err
	}

	return &SummaryInfo{
		TotalMeetings:  summary.TotalMeetings,
		TotalEvents:    summary.TotalCalendarEvents,
		TotalTasks:     summary.TotalTasks,
		Completed:      summary.TasksCompleted,
		InProgress:     summary.TasksInProgress,
		Todo:           summary.TasksTodo,
		CompletionRate: summary.CompletionRate,
	}, nil
}

// CheckHealth checks if the daemon is reachable
func (c *Client) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
