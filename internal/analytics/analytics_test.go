package analytics

import (
	"math"
	"testing"
	"time"

	"calassist/internal/models"
)

func timedEvent(title string, start time.Time, minutes int) models.Event {
	return models.Event{
		Title: title,
		Start: models.Marker{Time: start},
		End:   models.Marker{Time: start.Add(time.Duration(minutes) * time.Minute)},
	}
}

func allDayEvent(title string, date time.Time) models.Event {
	return models.Event{
		Title: title,
		Start: models.Marker{Time: date, AllDay: true},
	}
}

func TestGroupByDay(t *testing.T) {
	mar14 := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) // a Saturday
	mar16 := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	events := []models.Event{
		timedEvent("Standup", mar16.Add(9*time.Hour), 15),
		timedEvent("Dentist", mar14.Add(14*time.Hour), 30),
		allDayEvent("Conference", mar14),
		{Start: models.Marker{Time: mar14.Add(10 * time.Hour)}}, // no title
	}

	groups := GroupByDay(events)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	if !groups[0].Date.Equal(mar14) || !groups[1].Date.Equal(mar16) {
		t.Fatalf("groups out of date order: %v, %v", groups[0].Date, groups[1].Date)
	}

	first := groups[0].Entries
	if len(first) != 3 {
		t.Fatalf("expected 3 entries on March 14, got %d", len(first))
	}
	if first[0].Time != "All day" || first[0].Title != "Conference" {
		t.Errorf("all-day entry should sort first, got %+v", first[0])
	}
	if first[1].Time != "10:00" || first[1].Title != "Untitled Event" {
		t.Errorf("untitled entry = %+v, want 10:00 / Untitled Event", first[1])
	}
	if first[2].Time != "14:00" {
		t.Errorf("last entry time = %q, want 14:00", first[2].Time)
	}
}

func TestWeekdayCounts(t *testing.T) {
	monday := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	counts := WeekdayCounts([]models.Event{
		timedEvent("a", monday, 30),
		timedEvent("b", monday.Add(2*time.Hour), 30),
		allDayEvent("c", saturday),
	})

	if len(counts) != 7 {
		t.Fatalf("expected all 7 weekday keys, got %d", len(counts))
	}
	if counts["Monday"] != 2 {
		t.Errorf("Monday = %d, want 2", counts["Monday"])
	}
	if counts["Saturday"] != 1 {
		t.Errorf("Saturday = %d, want 1", counts["Saturday"])
	}
	if counts["Wednesday"] != 0 {
		t.Errorf("Wednesday = %d, want 0", counts["Wednesday"])
	}
}

func TestDurations(t *testing.T) {
	start := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

	stats := Durations([]models.Event{
		timedEvent("short", start, 30),
		timedEvent("long", start.Add(3*time.Hour), 60),
		allDayEvent("ignored", start),
	})

	if stats.TimedCount != 2 {
		t.Fatalf("TimedCount = %d, want 2", stats.TimedCount)
	}
	if !stats.HasAverage || math.Abs(stats.AverageMinutes-45) > 1e-9 {
		t.Errorf("AverageMinutes = %v, want 45", stats.AverageMinutes)
	}
	if stats.Buckets["16-30 minutes"] != 1 {
		t.Errorf("16-30 bucket = %d, want 1", stats.Buckets["16-30 minutes"])
	}
	if stats.Buckets["31-60 minutes"] != 1 {
		t.Errorf("31-60 bucket = %d, want 1", stats.Buckets["31-60 minutes"])
	}
	if stats.Buckets["0-15 minutes"] != 0 {
		t.Errorf("0-15 bucket = %d, want 0", stats.Buckets["0-15 minutes"])
	}
}

func TestDurationsEmpty(t *testing.T) {
	start := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	stats := Durations([]models.Event{allDayEvent("only all-day", start)})
	if stats.HasAverage {
		t.Error("HasAverage should be false with no timed events")
	}
	if stats.TimedCount != 0 {
		t.Errorf("TimedCount = %d, want 0", stats.TimedCount)
	}
	if len(stats.Buckets) != len(DurationOrder) {
		t.Errorf("expected all %d buckets present, got %d", len(DurationOrder), len(stats.Buckets))
	}
}

func TestBucketLabel(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{5, "0-15 minutes"},
		{15, "0-15 minutes"},
		{16, "16-30 minutes"},
		{30, "16-30 minutes"},
		{31, "31-60 minutes"},
		{60, "31-60 minutes"},
		{61, "1-2 hours"},
		{120, "1-2 hours"},
		{121, "2+ hours"},
		{480, "2+ hours"},
	}
	for _, tc := range tests {
		if got := bucketLabel(tc.minutes); got != tc.want {
			t.Errorf("bucketLabel(%v) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestBuildHeatmap(t *testing.T) {
	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // Monday
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)  // Sunday

	busy := from.Add(10 * time.Hour)
	events := []models.Event{
		timedEvent("a", busy, 30),
		timedEvent("b", busy.Add(time.Hour), 30),
		timedEvent("c", busy.Add(2*time.Hour), 30),
		timedEvent("d", from.AddDate(0, 0, 2).Add(9*time.Hour), 30),
	}

	hm := BuildHeatmap(events, from, to)
	if len(hm.Cells) != 7 {
		t.Fatalf("expected 7 cells for a one-week range, got %d", len(hm.Cells))
	}
	if hm.Max != 3 {
		t.Errorf("Max = %d, want 3", hm.Max)
	}
	if hm.Cells[0].Count != 3 || hm.Cells[0].Level != 4 {
		t.Errorf("busiest cell = count %d level %d, want 3/4", hm.Cells[0].Count, hm.Cells[0].Level)
	}
	if hm.Cells[1].Count != 0 || hm.Cells[1].Level != 0 {
		t.Errorf("empty cell = count %d level %d, want 0/0", hm.Cells[1].Count, hm.Cells[1].Level)
	}
	if hm.Cells[2].Count != 1 {
		t.Errorf("Wednesday count = %d, want 1", hm.Cells[2].Count)
	}
	if hm.Cells[0].Weekday != "Monday" || hm.Cells[6].Weekday != "Sunday" {
		t.Errorf("weekday labels = %q..%q, want Monday..Sunday", hm.Cells[0].Weekday, hm.Cells[6].Weekday)
	}
}

func TestBuildHeatmapNoEvents(t *testing.T) {
	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	hm := BuildHeatmap(nil, from, from.AddDate(0, 0, 2))
	if len(hm.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(hm.Cells))
	}
	if hm.Max != 0 {
		t.Errorf("Max = %d, want 0", hm.Max)
	}
	for _, cell := range hm.Cells {
		if cell.Level != 0 {
			t.Errorf("cell %v level = %d, want 0", cell.Date, cell.Level)
		}
	}
}
