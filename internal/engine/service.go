// Package engine provides the request boundary and HTTP API for Cadence.
package engine

import (
	"fmt"

	"github.com/fentz26/cadence/internal/audit"
	"github.com/fentz26/cadence/internal/models"
	"github.com/fentz26/cadence/internal/scheduler"
	"github.com/fentz26/cadence/internal/store"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Service is the façade external callers mutate entities through. Task
// writes go through the status/progress sync rules, auto-schedule is
// delegated to the scheduler, and summaries are recomputed on every read.
type Service struct {
	store    *store.Store
	sched    *scheduler.Scheduler
	activity *audit.Recorder
}

// NewService creates a new request boundary service.
func NewService(s *store.Store, sched *scheduler.Scheduler, activity *audit.Recorder) *Service {
	return &Service{
		store:    s,
		sched:    sched,
		activity: activity,
	}
}

// --- Meeting Operations ---

// ListMeetings returns all meetings with their agenda items.
func (s *Service) ListMeetings() ([]models.Meeting, error) {
	return s.store.ListMeetings()
}

// GetMeeting retrieves a single meeting.
func (s *Service) GetMeeting(id string) (*models.Meeting, error) {
	return s.store.GetMeeting(id)
}

// CreateMeeting creates a new meeting.
func (s *Service) CreateMeeting(title string, date models.Date, attendees []string) (*models.Meeting, error) {
	meeting, err := s.store.CreateMeeting(title, date, attendees)
	if err != nil {
		return nil, err
	}
	s.activity.Record("meeting.create", meeting.ID, meeting.Title)
	return meeting, nil
}

// DeleteMeeting removes a meeting and everything it owns.
func (s *Service) DeleteMeeting(id string) error {
	if err := s.store.DeleteMeeting(id); err != nil {
		return err
	}
	s.activity.Record("meeting.delete", id, "")
	return nil
}

// --- Agenda Item Operations ---

// AddAgendaItem appends an agenda item to a meeting. The item's task is
// derived automatically; callers never create tasks directly.
func (s *Service) AddAgendaItem(meetingID, title, description string, durationMin int) (*models.AgendaItem, error) {
	item, err := s.store.AddAgendaItem(meetingID, title, description, durationMin)
	if err != nil {
		return nil, err
	}
	s.activity.Record("agenda_item.add", item.ID, fmt.Sprintf("%s (%d min)", item.Title, item.DurationMin))
	return item, nil
}

// ListAgendaItems returns agenda items, optionally filtered by meeting.
func (s *Service) ListAgendaItems(meetingID string) ([]models.AgendaItem, error) {
	return s.store.ListAgendaItems(meetingID)
}

// --- Task Operations ---

// ListTasks returns tasks, optionally filtered by status and assignee.
func (s *Service) ListTasks(status, assignee string) ([]models.Task, error) {
	return s.store.ListTasks(status, assignee)
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(id string) (*models.Task, error) {
	return s.store.GetTask(id)
}

// UpdateTask updates a task through the sync rules. When both status and
// progress are supplied the status is authoritative and progress is derived
// from it.
func (s *Service) UpdateTask(id string, status *models.TaskStatus, progress *int, notes *string) (*models.Task, error) {
	task, err := s.store.UpdateTask(id, status, progress, notes)
	if err != nil {
		return nil, err
	}
	s.activity.Record("task.update", task.ID, fmt.Sprintf("%s/%d", task.Status, task.Progress))
	return task, nil
}

// --- Calendar Operations ---

// ListCalendarEvents returns every calendar event.
func (s *Service) ListCalendarEvents() ([]models.CalendarEvent, error) {
	return s.store.ListCalendarEvents()
}

// AutoSchedule places the meeting's unplaced agenda items onto the calendar
// and returns the created events.
func (s *Service) AutoSchedule(meetingID string) ([]models.CalendarEvent, error) {
	created, err := s.sched.AutoSchedule(meetingID)
	if err != nil {
		return nil, err
	}
	s.activity.Record("meeting.auto_schedule", meetingID, fmt.Sprintf("%d events created", len(created)))
	return created, nil
}

// --- Summary ---

// GetSummary recomputes the dashboard counters from live state.
func (s *Service) GetSummary() (*models.Summary, error) {
	return s.store.ComputeSummary()
}

// --- Activity ---

// RecentActivity returns the most recent activity log entries.
func (s *Service) RecentActivity(limit int) ([]models.AuditEntry, error) {
	return s.activity.Recent(limit)
}
