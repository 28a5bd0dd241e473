package scheduler

import (
	"path/filepath"
	"testing"

	"github.com/fentz26/cadence/internal/models"
	"github.com/fentz26/cadence/internal/store"
	"github.com/rs/zerolog"
)

func TestAutoSchedule_PlacesItemsInOrder(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	meeting := newMeeting(t, s, "Q1 Planning", "2024-01-10", "Alice", "Bob")
	budget, _ := s.AddAgendaItem(meeting.ID, "Budget Review", "", 45)
	roadmap, _ := s.AddAgendaItem(meeting.ID, "Roadmap", "", 60)

	created, err := sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("AutoSchedule failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Expected 2 meeting events + 1 follow-up, got %d", len(created))
	}

	first, second, followUp := created[0], created[1], created[2]

	if first.AgendaItemID != budget.ID || second.AgendaItemID != roadmap.ID {
		t.Error("Events should be placed in agenda insertion order")
	}
	if first.Type != models.EventTypeMeeting || second.Type != models.EventTypeMeeting {
		t.Error("Agenda placements should be meeting-type events")
	}
	if first.Date.String() != "2024-01-10" || second.Date.String() != "2024-01-10" {
		t.Errorf("Both items should land on the meeting date, got %s and %s", first.Date, second.Date)
	}
	if first.StartMinute != 540 || first.DurationMin != 45 {
		t.Errorf("First slot should be 09:00 for 45 min, got %d/%d", first.StartMinute, first.DurationMin)
	}
	if second.StartMinute != 585 {
		t.Errorf("Second slot should start when the first ends, got %d", second.StartMinute)
	}
	if first.Overlaps(second) {
		t.Error("Placed slots must not overlap")
	}

	if followUp.Type != models.EventTypeFollowUp {
		t.Errorf("Expected follow-up event, got %s", followUp.Type)
	}
	if followUp.Date.String() != "2024-01-11" {
		t.Errorf("Follow-up should be the day after the last placement, got %s", followUp.Date)
	}
	if followUp.DurationMin != 15 {
		t.Errorf("Expected 15 minute follow-up, got %d", followUp.DurationMin)
	}

	items, _ := s.ListAgendaItems(meeting.ID)
	for _, item := range items {
		if item.ScheduledDate == nil || item.ScheduledDate.String() != "2024-01-10" {
			t.Errorf("Item %q should be scheduled on 2024-01-10", item.Title)
		}
	}
}

func TestAutoSchedule_MeetingNotFound(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	_, err := sch.AutoSchedule("missing")
	if models.KindOf(err) != models.KindNotFound {
		t.Errorf("Expected not_found, got %v", err)
	}
}

func TestAutoSchedule_NothingToSchedule(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	meeting := newMeeting(t, s, "Empty", "2024-01-10", "Alice")

	_, err := sch.AutoSchedule(meeting.ID)
	if models.KindOf(err) != models.KindNothingToSchedule {
		t.Errorf("Expected nothing_to_schedule, got %v", err)
	}
	events, _ := s.ListCalendarEvents()
	if len(events) != 0 {
		t.Errorf("Failed auto-schedule must create no events, got %d", len(events))
	}
}

func TestAutoSchedule_AvoidsExistingEvents(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	day := mustDate(t, "2024-01-10")

	// An unattributed event counts as busy time for everyone
	if _, err := s.CommitSchedule(nil, &models.CalendarEvent{
		Title: "Office hours", Date: day, StartMinute: 540, DurationMin: 60,
		Type: models.EventTypeOther,
	}); err != nil {
		t.Fatalf("seed event failed: %v", err)
	}

	meeting := newMeeting(t, s, "Sync", "2024-01-10", "Alice")
	s.AddAgendaItem(meeting.ID, "Topic", "", 30)

	created, err := sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("AutoSchedule failed: %v", err)
	}
	if created[0].StartMinute != 600 {
		t.Errorf("Slot should start after the existing event, got %d", created[0].StartMinute)
	}
}

func TestAutoSchedule_AttendeeScopedConflicts(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	a := newMeeting(t, s, "Team A", "2024-01-10", "Alice", "Bob")
	s.AddAgendaItem(a.ID, "A topic", "", 60)
	if _, err := sch.AutoSchedule(a.ID); err != nil {
		t.Fatalf("AutoSchedule A failed: %v", err)
	}

	// Shares Alice: must dodge meeting A's 09:00 slot
	b := newMeeting(t, s, "Team B", "2024-01-10", "Alice", "Carol")
	s.AddAgendaItem(b.ID, "B topic", "", 30)
	createdB, err := sch.AutoSchedule(b.ID)
	if err != nil {
		t.Fatalf("AutoSchedule B failed: %v", err)
	}
	if createdB[0].StartMinute != 600 {
		t.Errorf("Meeting sharing an attendee should start at 10:00, got %d", createdB[0].StartMinute)
	}

	// Disjoint attendees: free to take 09:00 in parallel
	c := newMeeting(t, s, "Team C", "2024-01-10", "Dave")
	s.AddAgendaItem(c.ID, "C topic", "", 30)
	createdC, err := sch.AutoSchedule(c.ID)
	if err != nil {
		t.Fatalf("AutoSchedule C failed: %v", err)
	}
	if createdC[0].StartMinute != 540 {
		t.Errorf("Disjoint meeting should start at opening, got %d", createdC[0].StartMinute)
	}
}

func TestAutoSchedule_RollsToNextDay(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	meeting := newMeeting(t, s, "Offsite", "2024-01-10", "Alice")
	s.AddAgendaItem(meeting.ID, "Morning block", "", 300)
	s.AddAgendaItem(meeting.ID, "Deep dive", "", 200)

	created, err := sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("AutoSchedule failed: %v", err)
	}

	// 300 + 200 > 480 minute day, second item rolls over
	if created[0].Date.String() != "2024-01-10" {
		t.Errorf("First item should stay on the meeting date, got %s", created[0].Date)
	}
	if created[1].Date.String() != "2024-01-11" {
		t.Errorf("Second item should roll to the next day, got %s", created[1].Date)
	}
	if created[1].StartMinute != 540 {
		t.Errorf("Rolled item should start at opening time, got %d", created[1].StartMinute)
	}
	if created[2].Date.String() != "2024-01-12" {
		t.Errorf("Follow-up should trail the last placement, got %s", created[2].Date)
	}
}

func TestAutoSchedule_UnschedulableBacklog(t *testing.T) {
	cfg := &Config{
		OpeningMinute:    540,
		ClosingMinute:    600,
		FollowUpMinutes:  15,
		MaxLookaheadDays: 1,
	}
	s, sch := newTestScheduler(t, cfg)
	defer s.Close()

	meeting := newMeeting(t, s, "Overbooked", "2024-01-10", "Alice")
	s.AddAgendaItem(meeting.ID, "One", "", 60)
	s.AddAgendaItem(meeting.ID, "Two", "", 60)
	s.AddAgendaItem(meeting.ID, "Three", "", 60)

	_, err := sch.AutoSchedule(meeting.ID)
	if models.KindOf(err) != models.KindUnschedulableBacklog {
		t.Fatalf("Expected unschedulable_backlog, got %v", err)
	}

	// All-or-nothing: the items that would have fit must not be committed
	events, _ := s.ListCalendarEvents()
	if len(events) != 0 {
		t.Errorf("Expected no events after failed run, got %d", len(events))
	}
	items, _ := s.ListAgendaItems(meeting.ID)
	for _, item := range items {
		if item.ScheduledDate != nil {
			t.Errorf("Item %q should remain unscheduled", item.Title)
		}
	}
}

func TestAutoSchedule_ItemLongerThanDay(t *testing.T) {
	cfg := &Config{
		OpeningMinute:    540,
		ClosingMinute:    600,
		FollowUpMinutes:  15,
		MaxLookaheadDays: 14,
	}
	s, sch := newTestScheduler(t, cfg)
	defer s.Close()

	meeting := newMeeting(t, s, "Marathon", "2024-01-10", "Alice")
	s.AddAgendaItem(meeting.ID, "All day", "", 90)

	_, err := sch.AutoSchedule(meeting.ID)
	if models.KindOf(err) != models.KindUnschedulableBacklog {
		t.Errorf("Expected unschedulable_backlog for oversized item, got %v", err)
	}
}

func TestAutoSchedule_RerunOnlyPlansUnplaced(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	meeting := newMeeting(t, s, "Weekly", "2024-01-10", "Alice")
	s.AddAgendaItem(meeting.ID, "First", "", 60)

	if _, err := sch.AutoSchedule(meeting.ID); err != nil {
		t.Fatalf("First AutoSchedule failed: %v", err)
	}

	// Nothing left to place: no new events, no second follow-up
	created, err := sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("Second AutoSchedule failed: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("Re-run with nothing unplaced should create no events, got %d", len(created))
	}

	events, _ := s.ListCalendarEvents()
	if len(events) != 2 {
		t.Fatalf("Expected the original 2 events, got %d", len(events))
	}

	// A new item plans around the existing placement
	s.AddAgendaItem(meeting.ID, "Second", "", 30)
	created, err = sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("Third AutoSchedule failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 1 placement + 1 follow-up, got %d", len(created))
	}
	if created[0].StartMinute != 600 {
		t.Errorf("New item should dodge the fixed placement, got start %d", created[0].StartMinute)
	}

	// The already-placed item gained no duplicate event
	events, _ = s.ListCalendarEvents()
	byItem := map[string]int{}
	for _, e := range events {
		if e.AgendaItemID != "" {
			byItem[e.AgendaItemID]++
		}
	}
	for id, n := range byItem {
		if n != 1 {
			t.Errorf("Agenda item %s has %d events, want 1", id, n)
		}
	}
}

func TestAutoSchedule_RerunFollowUpAtHorizon(t *testing.T) {
	cfg := &Config{
		OpeningMinute:    540,
		ClosingMinute:    660,
		FollowUpMinutes:  15,
		MaxLookaheadDays: 1,
	}
	s, sch := newTestScheduler(t, cfg)
	defer s.Close()

	// First run fills the meeting day, rolls the second item onto the last
	// look-ahead day, and puts the follow-up one day past it.
	meeting := newMeeting(t, s, "Crunch", "2024-01-10", "Alice")
	s.AddAgendaItem(meeting.ID, "Full day", "", 120)
	s.AddAgendaItem(meeting.ID, "Spillover", "", 60)

	first, err := sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("First AutoSchedule failed: %v", err)
	}
	firstFollowUp := first[len(first)-1]
	if firstFollowUp.Date.String() != "2024-01-12" {
		t.Fatalf("First follow-up should land past the look-ahead day, got %s", firstFollowUp.Date)
	}

	// The re-run's follow-up lands on the same day and must see the first
	// one as an obstacle.
	s.AddAgendaItem(meeting.ID, "Late addition", "", 30)
	second, err := sch.AutoSchedule(meeting.ID)
	if err != nil {
		t.Fatalf("Second AutoSchedule failed: %v", err)
	}
	secondFollowUp := second[len(second)-1]
	if secondFollowUp.Type != models.EventTypeFollowUp {
		t.Fatalf("Expected a follow-up event, got %s", secondFollowUp.Type)
	}
	if secondFollowUp.Overlaps(firstFollowUp) {
		t.Errorf("Follow-ups overlap on %s: [%d,%d) vs [%d,%d)",
			secondFollowUp.Date,
			secondFollowUp.StartMinute, secondFollowUp.EndMinute(),
			firstFollowUp.StartMinute, firstFollowUp.EndMinute())
	}
	if secondFollowUp.StartMinute != firstFollowUp.EndMinute() {
		t.Errorf("Second follow-up should queue behind the first, got start %d", secondFollowUp.StartMinute)
	}

	events, _ := s.ListCalendarEvents()
	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if events[i].Overlaps(events[j]) {
				t.Errorf("Events %q and %q overlap on %s", events[i].Title, events[j].Title, events[i].Date)
			}
		}
	}
}

func TestAutoSchedule_NoOverlapsProperty(t *testing.T) {
	s, sch := newTestScheduler(t, nil)
	defer s.Close()

	meeting := newMeeting(t, s, "Dense day", "2024-01-10", "Alice")
	for _, d := range []int{45, 60, 90, 120, 30, 150, 60} {
		if _, err := s.AddAgendaItem(meeting.ID, "Topic", "", d); err != nil {
			t.Fatalf("AddAgendaItem failed: %v", err)
		}
	}

	if _, err := sch.AutoSchedule(meeting.ID); err != nil {
		t.Fatalf("AutoSchedule failed: %v", err)
	}

	events, _ := s.ListCalendarEvents()
	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if events[i].Overlaps(events[j]) {
				t.Errorf("Events %q and %q overlap on %s", events[i].Title, events[j].Title, events[i].Date)
			}
		}
	}
}

// --- helpers ---

func newTestScheduler(t *testing.T, cfg *Config) (*store.Store, *Scheduler) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s, New(s, cfg, zerolog.Nop())
}

func newMeeting(t *testing.T, s *store.Store, title, date string, attendees ...string) *models.Meeting {
	t.Helper()
	meeting, err := s.CreateMeeting(title, mustDate(t, date), attendees)
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	return meeting
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	return d
}
