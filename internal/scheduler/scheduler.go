package scheduler

import (
	"fmt"
	"sync"

	"github.com/fentz26/cadence/internal/models"
	"github.com/fentz26/cadence/internal/store"
	"github.com/rs/zerolog"
)

// Scheduler allocates calendar slots for a meeting's agenda items. Runs are
// serialized by a mutex so two concurrent auto-schedules cannot hand out the
// same slot; the final write is a single store transaction.
type Scheduler struct {
	store *store.Store
	cfg   *Config
	log   zerolog.Logger

	mu sync.Mutex
}

// New creates a new scheduler.
func New(s *store.Store, cfg *Config, log zerolog.Logger) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scheduler{
		store: s,
		cfg:   cfg,
		log:   log.With().Str("component", "scheduler").Logger(),
	}
}

// AutoSchedule places every unplaced agenda item of the meeting into a
// conflict-free slot, in insertion order, starting at the meeting date's
// opening time. Items that do not fit the working day roll to the next day.
// Once every item is placed, one follow-up event lands the day after the
// last placement. Either all items commit or none do.
//
// Items that already carry a scheduled_date are left untouched; their events
// act as fixed obstacles, so re-running never duplicates placements.
func (sch *Scheduler) AutoSchedule(meetingID string) ([]models.CalendarEvent, error) {
	sch.mu.Lock()
	defer sch.mu.Unlock()

	meeting, err := sch.store.GetMeeting(meetingID)
	if err != nil {
		return nil, err
	}
	if len(meeting.AgendaItems) == 0 {
		return nil, models.NothingToSchedulef("meeting %q has no agenda items", meeting.Title)
	}

	var unplaced []models.AgendaItem
	for _, item := range meeting.AgendaItems {
		if item.ScheduledDate == nil {
			unplaced = append(unplaced, item)
		}
	}
	if len(unplaced) == 0 {
		sch.log.Debug().Str("meeting_id", meetingID).Msg("all agenda items already placed")
		return []models.CalendarEvent{}, nil
	}

	// The follow-up may land one day past the horizon, so the obstacle
	// window has to reach that far too.
	horizon := meeting.Date.AddDays(sch.cfg.MaxLookaheadDays)
	existing, err := sch.store.ListEventsInRange(meeting.Date, horizon.AddDays(1))
	if err != nil {
		return nil, err
	}
	obstacles, err := sch.relevantObstacles(meeting, existing)
	if err != nil {
		return nil, err
	}

	placements, err := sch.plan(meeting, unplaced, obstacles, horizon)
	if err != nil {
		return nil, err
	}

	for _, p := range placements {
		obstacles = append(obstacles, p.Event)
	}
	last := placements[len(placements)-1].Event.Date
	followUp, err := sch.planFollowUp(meeting, last.AddDays(1), obstacles, horizon)
	if err != nil {
		return nil, err
	}

	created, err := sch.store.CommitSchedule(placements, followUp)
	if err != nil {
		return nil, err
	}

	sch.log.Info().
		Str("meeting_id", meetingID).
		Int("items_placed", len(placements)).
		Str("follow_up", followUp.Date.String()).
		Msg("auto-schedule committed")
	return created, nil
}

// plan walks the candidate window day by day, allocating one contiguous slot
// per item in insertion order. Each placed slot joins the obstacle set for
// the items after it. Fails without side effects when the look-ahead runs out.
func (sch *Scheduler) plan(meeting *models.Meeting, unplaced []models.AgendaItem, obstacles []models.CalendarEvent, horizon models.Date) ([]store.Placement, error) {
	day := meeting.Date
	cursor := sch.cfg.OpeningMinute

	var placements []store.Placement
	for _, item := range unplaced {
		if item.DurationMin > sch.cfg.DayLength() {
			return nil, models.UnschedulableBacklogf(
				"agenda item %q (%d min) exceeds the %d minute working day",
				item.Title, item.DurationMin, sch.cfg.DayLength())
		}

		for {
			start, ok := findSlot(day, cursor, item.DurationMin, obstacles, sch.cfg)
			if ok {
				event := models.CalendarEvent{
					Title:        item.Title,
					Date:         day,
					StartMinute:  start,
					DurationMin:  item.DurationMin,
					Type:         models.EventTypeMeeting,
					MeetingID:    meeting.ID,
					AgendaItemID: item.ID,
				}
				placements = append(placements, store.Placement{ItemID: item.ID, Event: event})
				obstacles = append(obstacles, event)
				cursor = event.EndMinute()
				break
			}

			day = day.AddDays(1)
			cursor = sch.cfg.OpeningMinute
			if day.After(horizon) {
				return nil, models.UnschedulableBacklogf(
					"could not place %q within %d days of %s",
					item.Title, sch.cfg.MaxLookaheadDays, meeting.Date)
			}
		}
	}
	return placements, nil
}

// planFollowUp finds a conflict-free slot for the generated follow-up event,
// starting the day after the last placement. Re-runs schedule additional
// follow-ups next to earlier ones rather than on top of them.
func (sch *Scheduler) planFollowUp(meeting *models.Meeting, day models.Date, obstacles []models.CalendarEvent, horizon models.Date) (*models.CalendarEvent, error) {
	cursor := sch.cfg.OpeningMinute
	for {
		start, ok := findSlot(day, cursor, sch.cfg.FollowUpMinutes, obstacles, sch.cfg)
		if ok {
			return &models.CalendarEvent{
				Title:       fmt.Sprintf("Follow-up: %s", meeting.Title),
				Date:        day,
				StartMinute: start,
				DurationMin: sch.cfg.FollowUpMinutes,
				Type:        models.EventTypeFollowUp,
				Notes:       fmt.Sprintf("Check in on action items from %q", meeting.Title),
				MeetingID:   meeting.ID,
			}, nil
		}
		day = day.AddDays(1)
		if day.After(horizon.AddDays(1)) {
			return nil, models.UnschedulableBacklogf(
				"no room for the %q follow-up within the look-ahead window", meeting.Title)
		}
	}
}

// findSlot returns the earliest start on or after `from` where a slot of
// `dur` minutes fits on `day` without overlapping any obstacle, or false if
// the working day cannot hold it.
func findSlot(day models.Date, from, dur int, obstacles []models.CalendarEvent, cfg *Config) (int, bool) {
	start := from
	if start < cfg.OpeningMinute {
		start = cfg.OpeningMinute
	}
	for {
		if start+dur > cfg.ClosingMinute {
			return 0, false
		}
		candidate := models.CalendarEvent{Date: day, StartMinute: start, DurationMin: dur}
		bumped := false
		for _, o := range obstacles {
			if candidate.Overlaps(o) {
				start = o.EndMinute()
				bumped = true
				break
			}
		}
		if !bumped {
			return start, true
		}
	}
}

// relevantObstacles filters existing events down to those that block this
// meeting's attendees: events of the same meeting, events whose meeting
// shares an attendee, and unattributed events (busy time for everyone).
func (sch *Scheduler) relevantObstacles(meeting *models.Meeting, events []models.CalendarEvent) ([]models.CalendarEvent, error) {
	attendeesByMeeting := map[string][]string{meeting.ID: meeting.Attendees}

	var obstacles []models.CalendarEvent
	for _, e := range events {
		if e.MeetingID == "" {
			obstacles = append(obstacles, e)
			continue
		}
		attendees, ok := attendeesByMeeting[e.MeetingID]
		if !ok {
			other, err := sch.store.GetMeeting(e.MeetingID)
			if err != nil {
				if models.KindOf(err) == models.KindNotFound {
					attendeesByMeeting[e.MeetingID] = nil
					continue
				}
				return nil, err
			}
			attendeesByMeeting[e.MeetingID] = other.Attendees
			attendees = other.Attendees
		}
		if e.MeetingID == meeting.ID || sharesAttendee(meeting.Attendees, attendees) {
			obstacles = append(obstacles, e)
		}
	}
	return obstacles, nil
}

func sharesAttendee(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, name := range a {
		seen[name] = true
	}
	for _, name := range b {
		if seen[name] {
			return true
		}
	}
	return false
}
