// Package store provides SQLite-backed persistence for Cadence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fentz26/cadence/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the Cadence SQLite database. SQLite's single
// writer plus transactions around every multi-row mutation give the
// all-or-nothing semantics the engine relies on.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		attendees TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agenda_items (
		id TEXT PRIMARY KEY,
		meeting_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration_min INTEGER NOT NULL,
		position INTEGER NOT NULL,
		scheduled_date TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (meeting_id) REFERENCES meetings(id)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		agenda_item_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		assignee TEXT NOT NULL,
		deadline TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'todo',
		progress INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (agenda_item_id) REFERENCES agenda_items(id)
	);

	CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		duration_min INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		meeting_id TEXT NOT NULL DEFAULT '',
		agenda_item_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		entity_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agenda_items_meeting_id ON agenda_items(meeting_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_calendar_events_date ON calendar_events(date);
	CREATE INDEX IF NOT EXISTS idx_calendar_events_meeting_id ON calendar_events(meeting_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// --- Meeting Operations ---

// CreateMeeting inserts a new meeting after validating the create contract.
func (s *Store) CreateMeeting(title string, date models.Date, attendees []string) (*models.Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.InvalidInputf("meeting title must not be empty")
	}
	if date.IsZero() {
		return nil, models.InvalidInputf("meeting date is required")
	}
	if len(attendees) == 0 {
		return nil, models.InvalidInputf("meeting needs at least one attendee")
	}
	trimmed := make([]string, len(attendees))
	for i, a := range attendees {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, models.InvalidInputf("attendee names must not be empty")
		}
		trimmed[i] = a
	}
	attendees = trimmed

	now := time.Now().UTC()
	meeting := &models.Meeting{
		ID:          uuid.New().String(),
		Title:       title,
		Date:        date,
		Attendees:   attendees,
		AgendaItems: []models.AgendaItem{},
		CreatedAt:   now,
	}

	attendeesJSON, err := json.Marshal(attendees)
	if err != nil {
		return nil, fmt.Errorf("marshal attendees: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO meetings (id, title, date, attendees, notes, created_at) VALUES (?, ?, ?, ?, '', ?)`,
		meeting.ID, meeting.Title, meeting.Date, string(attendeesJSON), meeting.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}
	return meeting, nil
}

// GetMeeting retrieves a meeting with its agenda items and derived tasks.
func (s *Store) GetMeeting(id string) (*models.Meeting, error) {
	meeting, err := scanMeeting(s.db.QueryRow(
		`SELECT id, title, date, attendees, notes, created_at FROM meetings WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("meeting %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query meeting: %w", err)
	}

	items, err := s.listAgendaItems(s.db, id)
	if err != nil {
		return nil, err
	}
	meeting.AgendaItems = items
	return meeting, nil
}

// ListMeetings returns all meetings with their agenda items, newest first.
func (s *Store) ListMeetings() ([]models.Meeting, error) {
	rows, err := s.db.Query(
		`SELECT id, title, date, attendees, notes, created_at FROM meetings ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		m, err := scanMeetingRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range meetings {
		items, err := s.listAgendaItems(s.db, meetings[i].ID)
		if err != nil {
			return nil, err
		}
		meetings[i].AgendaItems = items
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting, its agenda items, their derived tasks and
// every calendar event referencing the meeting or its items, all in a single
// transaction. A partial cascade is never observable.
func (s *Store) DeleteMeeting(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRow(`SELECT id FROM meetings WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return models.NotFoundf("meeting %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("query meeting: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM calendar_events WHERE meeting_id = ?
		 OR agenda_item_id IN (SELECT id FROM agenda_items WHERE meeting_id = ?)`,
		id, id,
	); err != nil {
		return fmt.Errorf("delete calendar events: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM tasks WHERE agenda_item_id IN (SELECT id FROM agenda_items WHERE meeting_id = ?)`, id,
	); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM agenda_items WHERE meeting_id = ?`, id); err != nil {
		return fmt.Errorf("delete agenda items: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM meetings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// --- Agenda Item Operations ---

// AddAgendaItem appends an agenda item to a meeting and derives its task in
// the same transaction. This is the only way a task comes into existence:
// the task copies the item title, is assigned to the meeting's first
// attendee and falls due a week after the meeting.
func (s *Store) AddAgendaItem(meetingID, title, description string, durationMin int) (*models.AgendaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.InvalidInputf("agenda item title must not be empty")
	}
	if durationMin <= 0 {
		return nil, models.InvalidInputf("agenda item duration must be positive, got %d", durationMin)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	meeting, err := scanMeeting(tx.QueryRow(
		`SELECT id, title, date, attendees, notes, created_at FROM meetings WHERE id = ?`, meetingID,
	))
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("meeting %s not found", meetingID)
	}
	if err != nil {
		return nil, fmt.Errorf("query meeting: %w", err)
	}

	var position int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM agenda_items WHERE meeting_id = ?`, meetingID,
	).Scan(&position); err != nil {
		return nil, fmt.Errorf("count agenda items: %w", err)
	}

	now := time.Now().UTC()
	item := &models.AgendaItem{
		ID:          uuid.New().String(),
		MeetingID:   meetingID,
		Title:       title,
		Description: description,
		DurationMin: durationMin,
		Position:    position,
		CreatedAt:   now,
	}

	if _, err := tx.Exec(
		`INSERT INTO agenda_items (id, meeting_id, title, description, duration_min, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.MeetingID, item.Title, item.Description, item.DurationMin, item.Position, item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert agenda item: %w", err)
	}

	task := &models.Task{
		ID:           uuid.New().String(),
		AgendaItemID: item.ID,
		Title:        title,
		Assignee:     meeting.Attendees[0],
		Deadline:     meeting.Date.AddDays(7),
		Status:       models.TaskStatusTodo,
		Progress:     0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := tx.Exec(
		`INSERT INTO tasks (id, agenda_item_id, title, assignee, deadline, status, progress, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '', ?, ?)`,
		task.ID, task.AgendaItemID, task.Title, task.Assignee, task.Deadline,
		task.Status, task.Progress, task.CreatedAt, task.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	item.Task = task
	return item, nil
}

// ListAgendaItems returns agenda items in insertion order, optionally
// filtered by meeting. Each item carries its derived task.
func (s *Store) ListAgendaItems(meetingID string) ([]models.AgendaItem, error) {
	return s.listAgendaItems(s.db, meetingID)
}

func (s *Store) listAgendaItems(q queryer, meetingID string) ([]models.AgendaItem, error) {
	query := `SELECT id, meeting_id, title, description, duration_min, position, scheduled_date, created_at FROM agenda_items`
	var args []interface{}
	if meetingID != "" {
		query += ` WHERE meeting_id = ?`
		args = append(args, meetingID)
	}
	query += ` ORDER BY meeting_id, position`

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agenda items: %w", err)
	}
	defer rows.Close()

	items := []models.AgendaItem{}
	for rows.Next() {
		var item models.AgendaItem
		var scheduled sql.NullString
		if err := rows.Scan(&item.ID, &item.MeetingID, &item.Title, &item.Description,
			&item.DurationMin, &item.Position, &scheduled, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agenda item: %w", err)
		}
		if scheduled.Valid && scheduled.String != "" {
			d, err := models.ParseDate(scheduled.String)
			if err != nil {
				return nil, err
			}
			item.ScheduledDate = &d
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		task, err := s.taskForItem(q, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Task = task
	}
	return items, nil
}

func (s *Store) taskForItem(q queryer, itemID string) (*models.Task, error) {
	task := &models.Task{}
	err := q.QueryRow(
		`SELECT id, agenda_item_id, title, assignee, deadline, status, progress, notes, created_at, updated_at
		 FROM tasks WHERE agenda_item_id = ?`, itemID,
	).Scan(&task.ID, &task.AgendaItemID, &task.Title, &task.Assignee, &task.Deadline,
		&task.Status, &task.Progress, &task.Notes, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task for item: %w", err)
	}
	return task, nil
}

// --- Task Operations ---

// GetTask retrieves a task by ID.
func (s *Store) GetTask(id string) (*models.Task, error) {
	task := &models.Task{}
	err := s.db.QueryRow(
		`SELECT id, agenda_item_id, title, assignee, deadline, status, progress, notes, created_at, updated_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&task.ID, &task.AgendaItemID, &task.Title, &task.Assignee, &task.Deadline,
		&task.Status, &task.Progress, &task.Notes, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("task %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks, optionally filtered by status and assignee.
func (s *Store) ListTasks(status, assignee string) ([]models.Task, error) {
	query := `SELECT id, agenda_item_id, title, assignee, deadline, status, progress, notes, created_at, updated_at FROM tasks`
	var clauses []string
	var args []interface{}
	if status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, status)
	}
	if assignee != "" {
		clauses = append(clauses, `assignee = ?`)
		args = append(args, assignee)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.AgendaItemID, &task.Title, &task.Assignee, &task.Deadline,
			&task.Status, &task.Progress, &task.Notes, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask applies the status/progress sync rules and writes both fields in
// one statement. A status write takes precedence over a progress write when
// both are supplied; the derived counterpart is never caller-controlled.
func (s *Store) UpdateTask(id string, status *models.TaskStatus, progress *int, notes *string) (*models.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	task := &models.Task{}
	err = tx.QueryRow(
		`SELECT id, agenda_item_id, title, assignee, deadline, status, progress, notes, created_at, updated_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&task.ID, &task.AgendaItemID, &task.Title, &task.Assignee, &task.Deadline,
		&task.Status, &task.Progress, &task.Notes, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("task %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}

	switch {
	case status != nil:
		newStatus, newProgress, err := models.SyncFromStatus(*status)
		if err != nil {
			return nil, err
		}
		task.Status = newStatus
		task.Progress = newProgress
	case progress != nil:
		newStatus, newProgress, err := models.SyncFromProgress(*progress)
		if err != nil {
			return nil, err
		}
		task.Status = newStatus
		task.Progress = newProgress
	}
	if notes != nil {
		task.Notes = *notes
	}
	task.UpdatedAt = time.Now().UTC()

	if _, err := tx.Exec(
		`UPDATE tasks SET status = ?, progress = ?, notes = ?, updated_at = ? WHERE id = ?`,
		task.Status, task.Progress, task.Notes, task.UpdatedAt, task.ID,
	); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return task, nil
}

// --- Calendar Event Operations ---

// ListCalendarEvents returns all events ordered by date and start time.
func (s *Store) ListCalendarEvents() ([]models.CalendarEvent, error) {
	return s.queryEvents(`SELECT id, title, date, start_minute, duration_min, event_type, notes, meeting_id, agenda_item_id, created_at
		FROM calendar_events ORDER BY date, start_minute`)
}

// ListEventsInRange returns events with from <= date <= to, ordered by date
// and start time. Dates compare lexicographically in YYYY-MM-DD form.
func (s *Store) ListEventsInRange(from, to models.Date) ([]models.CalendarEvent, error) {
	return s.queryEvents(`SELECT id, title, date, start_minute, duration_min, event_type, notes, meeting_id, agenda_item_id, created_at
		FROM calendar_events WHERE date >= ? AND date <= ? ORDER BY date, start_minute`, from, to)
}

func (s *Store) queryEvents(query string, args ...interface{}) ([]models.CalendarEvent, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.StartMinute, &e.DurationMin,
			&e.Type, &e.Notes, &e.MeetingID, &e.AgendaItemID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Placement pairs an agenda item with the calendar event chosen for it.
type Placement struct {
	ItemID string
	Event  models.CalendarEvent
}

// CommitSchedule persists a completed scheduling plan in one transaction:
// each placed item receives its scheduled_date and event, then the follow-up
// event is appended. IDs are assigned here. On error nothing is committed.
func (s *Store) CommitSchedule(placements []Placement, followUp *models.CalendarEvent) ([]models.CalendarEvent, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	created := make([]models.CalendarEvent, 0, len(placements)+1)

	for _, p := range placements {
		res, err := tx.Exec(
			`UPDATE agenda_items SET scheduled_date = ? WHERE id = ?`,
			p.Event.Date, p.ItemID,
		)
		if err != nil {
			return nil, fmt.Errorf("update agenda item schedule: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("check rows affected: %w", err)
		}
		if n == 0 {
			return nil, models.NotFoundf("agenda item %s not found", p.ItemID)
		}

		event := p.Event
		event.ID = uuid.New().String()
		event.CreatedAt = now
		if err := insertEvent(tx, event); err != nil {
			return nil, err
		}
		created = append(created, event)
	}

	if followUp != nil {
		event := *followUp
		event.ID = uuid.New().String()
		event.CreatedAt = now
		if err := insertEvent(tx, event); err != nil {
			return nil, err
		}
		created = append(created, event)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return created, nil
}

func insertEvent(tx *sql.Tx, e models.CalendarEvent) error {
	_, err := tx.Exec(
		`INSERT INTO calendar_events (id, title, date, start_minute, duration_min, event_type, notes, meeting_id, agenda_item_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Date, e.StartMinute, e.DurationMin, e.Type, e.Notes, e.MeetingID, e.AgendaItemID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

// --- Summary ---

// ComputeSummary recomputes the dashboard counters from the store's current
// contents. Nothing is cached; every call reads live state.
func (s *Store) ComputeSummary() (*models.Summary, error) {
	sum := &models.Summary{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM meetings`).Scan(&sum.TotalMeetings); err != nil {
		return nil, fmt.Errorf("count meetings: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM calendar_events`).Scan(&sum.TotalCalendarEvents); err != nil {
		return nil, fmt.Errorf("count calendar events: %w", err)
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'todo' THEN 1 ELSE 0 END), 0)
		 FROM tasks`,
	).Scan(&sum.TotalTasks, &sum.TasksCompleted, &sum.TasksInProgress, &sum.TasksTodo); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	if sum.TotalTasks > 0 {
		rate := float64(sum.TasksCompleted) / float64(sum.TotalTasks) * 100
		sum.CompletionRate = math.Round(rate*10) / 10
	}
	return sum, nil
}

// --- Audit Operations ---

// AppendAudit records an engine mutation in the activity log.
func (s *Store) AppendAudit(action, entityID, detail string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		ID:        uuid.New().String(),
		Action:    action,
		EntityID:  entityID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO audit_entries (id, action, entity_id, detail, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.EntityID, entry.Detail, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

// ListAudit returns the most recent activity entries, newest first.
func (s *Store) ListAudit(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, action, entity_id, detail, timestamp FROM audit_entries ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityID, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeeting(row *sql.Row) (*models.Meeting, error) {
	return scanMeetingFrom(row)
}

func scanMeetingRows(rows *sql.Rows) (*models.Meeting, error) {
	return scanMeetingFrom(rows)
}

func scanMeetingFrom(r rowScanner) (*models.Meeting, error) {
	m := &models.Meeting{AgendaItems: []models.AgendaItem{}}
	var attendeesJSON string
	if err := r.Scan(&m.ID, &m.Title, &m.Date, &attendeesJSON, &m.Notes, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attendeesJSON), &m.Attendees); err != nil {
		return nil, fmt.Errorf("unmarshal attendees: %w", err)
	}
	return m, nil
}
