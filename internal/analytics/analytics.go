// Package analytics buckets fetched events for the dashboard views: per-day
// grouping for the upcoming list, and weekday/duration/heatmap aggregates for
// the analytics page.
package analytics

import (
	"sort"
	"time"

	"calassist/internal/models"
)

// WeekdayOrder is the fixed row order used by the weekday histogram and the
// heatmap, Monday first.
var WeekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DurationOrder is the fixed display order of the duration buckets.
var DurationOrder = []string{
	"0-15 minutes", "16-30 minutes", "31-60 minutes", "1-2 hours", "2+ hours",
}

// Entry is a per-day display record.
type Entry struct {
	Start       models.Marker
	Time        string // "15:04", or the literal "All day"
	Title       string
	Description string
	Location    string
	ColorID     string
}

// DayGroup holds the entries falling on a single calendar date, ordered by
// start time.
type DayGroup struct {
	Date    time.Time
	Entries []Entry
}

// GroupByDay buckets events by their start date. Groups come back in date
// order; entries within a group are sorted by start time, all-day entries
// first.
func GroupByDay(events []models.Event) []DayGroup {
	byDay := make(map[time.Time][]Entry)
	for _, ev := range events {
		label := "All day"
		if !ev.Start.AllDay {
			label = ev.Start.Time.Format("15:04")
		}
		title := ev.Title
		if title == "" {
			title = "Untitled Event"
		}
		day := ev.Start.Day()
		byDay[day] = append(byDay[day], Entry{
			Start:       ev.Start,
			Time:        label,
			Title:       title,
			Description: ev.Description,
			Location:    ev.Location,
			ColorID:     ev.ColorID,
		})
	}

	groups := make([]DayGroup, 0, len(byDay))
	for day, entries := range byDay {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Start.Time.Before(entries[j].Start.Time)
		})
		groups = append(groups, DayGroup{Date: day, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}

// WeekdayCounts assigns every event to exactly one of the seven weekday
// labels, keyed by the start marker's weekday.
func WeekdayCounts(events []models.Event) map[string]int {
	counts := make(map[string]int, len(WeekdayOrder))
	for _, day := range WeekdayOrder {
		counts[day] = 0
	}
	for _, ev := range events {
		counts[ev.Start.Time.Weekday().String()]++
	}
	return counts
}

// DurationStats aggregates the timed-event subset: events with both a start
// and an end timestamp. All-day events are excluded.
type DurationStats struct {
	Buckets        map[string]int
	TimedCount     int
	AverageMinutes float64
	HasAverage     bool
}

// Durations buckets timed events into the five fixed ranges and computes the
// mean duration. The average is undefined when no timed events exist.
func Durations(events []models.Event) DurationStats {
	stats := DurationStats{Buckets: make(map[string]int, len(DurationOrder))}
	for _, label := range DurationOrder {
		stats.Buckets[label] = 0
	}

	var total float64
	for _, ev := range events {
		if !ev.Timed() {
			continue
		}
		minutes := ev.DurationMinutes()
		stats.Buckets[bucketLabel(minutes)]++
		stats.TimedCount++
		total += minutes
	}

	if stats.TimedCount > 0 {
		stats.AverageMinutes = total / float64(stats.TimedCount)
		stats.HasAverage = true
	}
	return stats
}

func bucketLabel(minutes float64) string {
	switch {
	case minutes <= 15:
		return "0-15 minutes"
	case minutes <= 30:
		return "16-30 minutes"
	case minutes <= 60:
		return "31-60 minutes"
	case minutes <= 120:
		return "1-2 hours"
	default:
		return "2+ hours"
	}
}

// HeatmapCell is a single day of the activity heatmap.
type HeatmapCell struct {
	Date    time.Time
	Weekday string
	Count   int
	Level   int // 0..4 intensity relative to the busiest day
}

// Heatmap holds per-date counts spanning every day of the requested range,
// zero-count days included.
type Heatmap struct {
	Cells []HeatmapCell
	Max   int
}

// BuildHeatmap counts events per calendar date over [from, to]. Both bounds
// are interpreted as dates; the range is inclusive.
func BuildHeatmap(events []models.Event, from, to time.Time) Heatmap {
	counts := make(map[time.Time]int)
	for _, ev := range events {
		counts[ev.Start.Day()]++
	}

	start := midnight(from)
	end := midnight(to)

	hm := Heatmap{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		n := counts[day]
		if n > hm.Max {
			hm.Max = n
		}
		hm.Cells = append(hm.Cells, HeatmapCell{
			Date:    day,
			Weekday: day.Weekday().String(),
			Count:   n,
		})
	}
	for i := range hm.Cells {
		hm.Cells[i].Level = level(hm.Cells[i].Count, hm.Max)
	}
	return hm
}

func level(count, max int) int {
	if count == 0 || max == 0 {
		return 0
	}
	l := (count*4 + max - 1) / max
	if l > 4 {
		l = 4
	}
	return l
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
