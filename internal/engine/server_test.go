package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fentz26/cadence/internal/audit"
	"github.com/fentz26/cadence/internal/models"
	"github.com/fentz26/cadence/internal/scheduler"
	"github.com/fentz26/cadence/internal/store"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	recorder := audit.NewRecorder(st)
	sched := scheduler.New(st, nil, zerolog.Nop())
	service := NewService(st, sched, recorder)
	server := NewServer(service, st, "127.0.0.1:0", zerolog.Nop())

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp
}

func createMeeting(t *testing.T, ts *httptest.Server, title, date string, attendees []string) models.Meeting {
	t.Helper()

	var meeting models.Meeting
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/meetings", map[string]interface{}{
		"title":     title,
		"date":      date,
		"attendees": attendees,
	}, &meeting)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	return meeting
}

func addItem(t *testing.T, ts *httptest.Server, meetingID, title string, duration int) models.AgendaItem {
	t.Helper()

	var item models.AgendaItem
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/agenda-items", map[string]interface{}{
		"meeting_id": meetingID,
		"title":      title,
		"duration":   duration,
	}, &item)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	return item
}

func TestCreateAndGetMeeting(t *testing.T) {
	ts := newTestAPI(t)

	created := createMeeting(t, ts, "Sprint Planning", "2024-03-04", []string{"alice", "bob"})
	if created.ID == "" {
		t.Fatal("Expected meeting ID to be set")
	}

	var fetched models.Meeting
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/meetings/"+created.ID, nil, &fetched)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if fetched.Title != "Sprint Planning" {
		t.Errorf("Expected title 'Sprint Planning', got %q", fetched.Title)
	}
	if len(fetched.Attendees) != 2 {
		t.Errorf("Expected 2 attendees, got %d", len(fetched.Attendees))
	}
}

func TestCreateMeeting_BadDate(t *testing.T) {
	ts := newTestAPI(t)

	var body errorResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/meetings", map[string]interface{}{
		"title": "Broken",
		"date":  "04/03/2024",
	}, &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Kind != models.KindInvalidInput {
		t.Errorf("Expected invalid_input error, got %+v", body.Error)
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	ts := newTestAPI(t)

	var body errorResponse
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/meetings/nonexistent", nil, &body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Kind != models.KindNotFound {
		t.Errorf("Expected not_found error, got %+v", body.Error)
	}
}

func TestDeleteMeeting_RemovesChildren(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Retro", "2024-03-04", []string{"alice"})
	addItem(t, ts, meeting.ID, "Review incidents", 30)

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/meetings/"+meeting.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var tasks []models.Task
	doJSON(t, http.MethodGet, ts.URL+"/api/tasks", nil, &tasks)
	if len(tasks) != 0 {
		t.Errorf("Expected 0 tasks after delete, got %d", len(tasks))
	}
}

func TestAddAgendaItem_DerivesTask(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice", "bob"})
	item := addItem(t, ts, meeting.ID, "Define Q2 goals", 45)

	if item.Task == nil {
		t.Fatal("Expected a derived task on the agenda item")
	}
	if item.Task.Title != "Define Q2 goals" {
		t.Errorf("Expected task title to mirror the item, got %q", item.Task.Title)
	}
	if item.Task.Assignee != "alice" {
		t.Errorf("Expected assignee 'alice', got %q", item.Task.Assignee)
	}
	if item.Task.Status != models.TaskStatusTodo || item.Task.Progress != 0 {
		t.Errorf("Expected todo/0, got %s/%d", item.Task.Status, item.Task.Progress)
	}
}

func TestUpdateTask_StatusTakesPrecedence(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice"})
	item := addItem(t, ts, meeting.ID, "Ship the thing", 30)

	var task models.Task
	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+item.Task.ID, map[string]interface{}{
		"status":   "completed",
		"progress": 10,
	}, &task)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if task.Status != models.TaskStatusCompleted || task.Progress != 100 {
		t.Errorf("Expected completed/100, got %s/%d", task.Status, task.Progress)
	}
}

func TestUpdateTask_ProgressOutOfRange(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice"})
	item := addItem(t, ts, meeting.ID, "Ship the thing", 30)

	var body errorResponse
	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+item.Task.ID, map[string]interface{}{
		"progress": 150,
	}, &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Kind != models.KindInvalidRange {
		t.Errorf("Expected invalid_range error, got %+v", body.Error)
	}
}

func TestAutoScheduleEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice"})
	addItem(t, ts, meeting.ID, "First", 45)
	addItem(t, ts, meeting.ID, "Second", 60)

	var events []models.CalendarEvent
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/meetings/"+meeting.ID+"/auto-schedule", nil, &events)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 2 placements + follow-up, got %d events", len(events))
	}

	// Re-run is a no-op once everything is placed.
	var rerun []models.CalendarEvent
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/meetings/"+meeting.ID+"/auto-schedule", nil, &rerun)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 on re-run, got %d", resp.StatusCode)
	}
	if len(rerun) != 0 {
		t.Errorf("Expected no new events on re-run, got %d", len(rerun))
	}
}

func TestAutoSchedule_NoItems(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Empty", "2024-03-04", []string{"alice"})

	var body errorResponse
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/meetings/"+meeting.ID+"/auto-schedule", nil, &body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Kind != models.KindNothingToSchedule {
		t.Errorf("Expected nothing_to_schedule error, got %+v", body.Error)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice"})
	item1 := addItem(t, ts, meeting.ID, "One", 30)
	addItem(t, ts, meeting.ID, "Two", 30)
	addItem(t, ts, meeting.ID, "Three", 30)

	doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+item1.Task.ID, map[string]interface{}{
		"status": "completed",
	}, nil)

	var summary models.Summary
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/summary", nil, &summary)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if summary.TotalMeetings != 1 || summary.TotalTasks != 3 {
		t.Errorf("Expected 1 meeting / 3 tasks, got %d/%d", summary.TotalMeetings, summary.TotalTasks)
	}
	if summary.TasksCompleted != 1 {
		t.Errorf("Expected 1 completed task, got %d", summary.TasksCompleted)
	}
	if summary.CompletionRate != 33.3 {
		t.Errorf("Expected completion rate 33.3, got %v", summary.CompletionRate)
	}
}

func TestActivityEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice"})
	addItem(t, ts, meeting.ID, "One", 30)

	var entries []models.AuditEntry
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/activity?limit=10", nil, &entries)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 activity entries, got %d", len(entries))
	}
	if entries[0].Action != "agenda_item.add" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Action)
	}
}

func TestCalendarExport(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice"})
	addItem(t, ts, meeting.ID, "Design review", 45)
	doJSON(t, http.MethodPost, ts.URL+"/api/meetings/"+meeting.ID+"/auto-schedule", nil, nil)

	resp, err := http.Get(ts.URL + "/api/calendar-events/export.ics")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Expected text/calendar content type, got %q", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Error("Expected BEGIN:VCALENDAR in export")
	}
	if !strings.Contains(body, "SUMMARY:Design review") {
		t.Errorf("Expected event summary in export, got:\n%s", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	var health healthResponse
	resp := doJSON(t, http.MethodGet, ts.URL+"/health", nil, &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if health.Status != "ok" {
		t.Errorf("Expected status 'ok', got %q", health.Status)
	}
	if health.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestListTasks_Filters(t *testing.T) {
	ts := newTestAPI(t)

	meeting := createMeeting(t, ts, "Planning", "2024-03-04", []string{"alice", "bob"})
	item := addItem(t, ts, meeting.ID, "One", 30)
	addItem(t, ts, meeting.ID, "Two", 30)

	doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+item.Task.ID, map[string]interface{}{
		"status": "in_progress",
	}, nil)

	var tasks []models.Task
	url := fmt.Sprintf("%s/api/tasks?status=%s&assignee=alice", ts.URL, models.TaskStatusInProgress)
	doJSON(t, http.MethodGet, url, nil, &tasks)
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 filtered task, got %d", len(tasks))
	}
	if tasks[0].ID != item.Task.ID {
		t.Errorf("Expected task %s, got %s", item.Task.ID, tasks[0].ID)
	}
}
