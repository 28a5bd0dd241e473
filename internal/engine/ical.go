package engine

import (
	"bytes"
	"time"

	"github.com/emersion/go-ical"

	"github.com/fentz26/cadence/internal/models"
)

// EncodeICal renders calendar events as an iCalendar (RFC 5545) document so
// placements can be imported into external calendar clients.
func EncodeICal(events []models.CalendarEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//fentz26//cadence//EN")

	for _, e := range events {
		start := e.Date.Time().Add(time.Duration(e.StartMinute) * time.Minute)
		end := start.Add(time.Duration(e.DurationMin) * time.Minute)

		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, e.ID)
		ev.Props.SetText(ical.PropSummary, e.Title)
		if e.Notes != "" {
			ev.Props.SetText(ical.PropDescription, e.Notes)
		}
		ev.Props.SetDateTime(ical.PropDateTimeStamp, e.CreatedAt.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, start)
		ev.Props.SetDateTime(ical.PropDateTimeEnd, end)
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
