package models

import (
	"fmt"
	"strings"
	"time"
)

// Marker is one boundary of an event: either an exact instant or an all-day
// calendar date. The remote API encodes the former as an RFC 3339 date-time
// and the latter as a bare "2006-01-02" date.
type Marker struct {
	Time   time.Time
	AllDay bool
}

// ParseMarker interprets a start or end value returned by the calendar API.
// Values containing a 'T' are parsed as RFC 3339 timestamps and normalized to
// UTC; anything else is treated as an all-day date with no time component.
func ParseMarker(value string) (Marker, error) {
	if value == "" {
		return Marker{}, fmt.Errorf("empty marker")
	}
	if strings.Contains(value, "T") {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return Marker{}, fmt.Errorf("invalid date-time %q: %w", value, err)
		}
		return Marker{Time: t.UTC()}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Marker{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return Marker{Time: t.UTC(), AllDay: true}, nil
}

// Day returns the calendar date of the marker, at midnight UTC.
func (m Marker) Day() time.Time {
	y, mo, d := m.Time.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the marker is unset.
func (m Marker) IsZero() bool {
	return m.Time.IsZero()
}

// Event is a single calendar entry as held locally for the duration of a
// request. The remote service owns the record; this is a read/write copy.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       Marker
	End         Marker
	ColorID     string
	HTMLLink    string
}

// Timed reports whether the event has both a start and an end timestamp.
// All-day events carry date-only markers and are not timed.
func (e Event) Timed() bool {
	return !e.Start.IsZero() && !e.End.IsZero() && !e.Start.AllDay && !e.End.AllDay
}

// DurationMinutes returns the event length in minutes. Only meaningful for
// timed events.
func (e Event) DurationMinutes() float64 {
	return e.End.Time.Sub(e.Start.Time).Minutes()
}

// Reminder is a notification override attached to a new event.
type Reminder struct {
	Method  string
	Minutes int64
}

// Draft carries the fields of an event about to be created. All-day drafts
// span the whole of Date; timed drafts start at Start and run for
// DurationMinutes.
type Draft struct {
	Title           string
	Description     string
	Location        string
	AllDay          bool
	Date            time.Time
	Start           time.Time
	DurationMinutes int
	ColorID         string
	Reminders       []Reminder
}
