package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fentz26/cadence/internal/models"
	"github.com/fentz26/cadence/internal/store"
)

// Server provides the HTTP API for Cadence.
type Server struct {
	service *Service
	store   *store.Store
	addr    string
	log     zerolog.Logger
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, st *store.Store, addr string, log zerolog.Logger) *Server {
	return &Server{
		service: service,
		store:   st,
		addr:    addr,
		log:     log.With().Str("component", "http").Logger(),
	}
}

// Handler builds the route table. Exposed separately so tests can mount it
// on httptest servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Meeting endpoints
	mux.HandleFunc("/api/meetings", s.handleMeetings)
	mux.HandleFunc("/api/meetings/", s.handleMeetingByID)

	// Agenda item endpoints
	mux.HandleFunc("/api/agenda-items", s.handleAgendaItems)

	// Task endpoints
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/", s.handleTaskByID)

	// Calendar endpoints
	mux.HandleFunc("/api/calendar-events", s.handleCalendarEvents)
	mux.HandleFunc("/api/calendar-events/export.ics", s.handleCalendarExport)

	// Dashboard endpoints
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/activity", s.handleActivity)

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.log.Info().Str("addr", s.addr).Msg("starting cadence daemon")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// statusForKind maps the engine's error taxonomy onto HTTP status codes.
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidInput, models.KindInvalidRange:
		return http.StatusBadRequest
	case models.KindNothingToSchedule:
		return http.StatusUnprocessableEntity
	case models.KindUnschedulableBacklog:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error *models.Error `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *models.Error
	if !errors.As(err, &apiErr) {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		apiErr = &models.Error{Kind: "internal", Message: "internal error"}
	}
	writeJSON(w, statusForKind(apiErr.Kind), errorResponse{Error: apiErr})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// --- Meeting Handlers ---

// handleMeetings handles POST /api/meetings and GET /api/meetings
func (s *Server) handleMeetings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createMeeting(w, r)
	case http.MethodGet:
		s.listMeetings(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleMeetingByID handles /api/meetings/{id} and /api/meetings/{id}/auto-schedule
func (s *Server) handleMeetingByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/meetings/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "meeting id required", http.StatusBadRequest)
		return
	}

	meetingID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getMeeting(w, r, meetingID)
	case action == "" && r.Method == http.MethodDelete:
		s.deleteMeeting(w, r, meetingID)
	case action == "auto-schedule" && r.Method == http.MethodPost:
		s.autoSchedule(w, r, meetingID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type createMeetingRequest struct {
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Attendees []string `json:"attendees"`
}

func (s *Server) createMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.writeError(w, r, models.InvalidInputf("date must be YYYY-MM-DD, got %q", req.Date))
		return
	}

	meeting, err := s.service.CreateMeeting(req.Title, date, req.Attendees)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, meeting)
}

func (s *Server) listMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := s.service.ListMeetings()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if meetings == nil {
		meetings = []models.Meeting{}
	}
	writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) getMeeting(w http.ResponseWriter, r *http.Request, meetingID string) {
	meeting, err := s.service.GetMeeting(meetingID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) deleteMeeting(w http.ResponseWriter, r *http.Request, meetingID string) {
	if err := s.service.DeleteMeeting(meetingID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) autoSchedule(w http.ResponseWriter, r *http.Request, meetingID string) {
	events, err := s.service.AutoSchedule(meetingID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// --- Agenda Item Handlers ---

// handleAgendaItems handles POST /api/agenda-items and GET /api/agenda-items
func (s *Server) handleAgendaItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.addAgendaItem(w, r)
	case http.MethodGet:
		s.listAgendaItems(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type addAgendaItemRequest struct {
	MeetingID   string `json:"meeting_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

func (s *Server) addAgendaItem(w http.ResponseWriter, r *http.Request) {
	var req addAgendaItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	item, err := s.service.AddAgendaItem(req.MeetingID, req.Title, req.Description, req.Duration)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) listAgendaItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListAgendaItems(r.URL.Query().Get("meeting_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.AgendaItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// --- Task Handlers ---

// handleTasks handles GET /api/tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	tasks, err := s.service.ListTasks(q.Get("status"), q.Get("assignee"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// handleTaskByID handles GET /api/tasks/{id} and PATCH /api/tasks/{id}
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if taskID == "" || strings.Contains(taskID, "/") {
		http.Error(w, "task id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTask(w, r, taskID)
	case http.MethodPatch:
		s.updateTask(w, r, taskID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := s.service.GetTask(taskID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type updateTaskRequest struct {
	Status   *string `json:"status"`
	Progress *int    `json:"progress"`
	Notes    *string `json:"notes"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var status *models.TaskStatus
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		status = &st
	}

	task, err := s.service.UpdateTask(taskID, status, req.Progress, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// --- Calendar Handlers ---

func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	events, err := s.service.ListCalendarEvents()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCalendarExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	events, err := s.service.ListCalendarEvents()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := EncodeICal(events)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cadence.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// --- Dashboard Handlers ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := s.service.GetSummary()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, models.InvalidInputf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}

	entries, err := s.service.RecentActivity(limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Health ---

type healthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Service: "cadence",
		Status:  "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
