package ui

import (
	"net/http"
	"time"

	"calassist/internal/analytics"
	"calassist/internal/auth"
	"calassist/internal/http/errors"
)

// heatmapRow is one weekday row of the rendered heatmap grid. Cells run left
// to right across the weeks of the range; leading and trailing slots outside
// the range are nil.
type heatmapRow struct {
	Weekday string
	Cells   []*analytics.HeatmapCell
}

// weekdayBar is one bar of the weekday histogram.
type weekdayBar struct {
	Label   string
	Count   int
	Percent int
}

// durationBar is one bar of the duration histogram.
type durationBar struct {
	Label   string
	Count   int
	Percent int
}

// Analytics renders event statistics over the selected date range.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	email, _ := auth.EmailFromContext(r.Context())

	from, to := h.parseDateRange(r, today().AddDate(0, 0, -90), today())

	data := h.withFlash(r, map[string]any{
		"Title": "Analytics",
		"Email": email,
		"From":  from,
		"To":    to,
	})

	if from.After(to) {
		data["FlashError"] = "end date must be after start date"
		h.render(w, r, "analytics.html", data)
		return
	}

	lo, hi := rangeBounds(from, to)
	events, err := h.cal.ListEvents(r.Context(), lo, hi, analyticsMaxResults)
	if err != nil {
		errors.LogError(r, "failed to list events", err)
		data["FlashError"] = "failed to load events"
		h.render(w, r, "analytics.html", data)
		return
	}

	heatmap := analytics.BuildHeatmap(events, from, to)
	counts := analytics.WeekdayCounts(events)
	durations := analytics.Durations(events)

	data["Total"] = len(events)
	data["HeatmapRows"] = heatmapRows(heatmap)
	data["WeekdayBars"] = weekdayBars(counts, len(events))
	data["DurationBars"] = durationBars(durations)
	data["Durations"] = durations
	h.render(w, r, "analytics.html", data)
}

// heatmapRows lays the flat cell list out as a Monday-first grid, one row per
// weekday and one column per week.
func heatmapRows(hm analytics.Heatmap) []heatmapRow {
	if len(hm.Cells) == 0 {
		return nil
	}

	weeks := 1
	col := 0
	cols := make([]int, len(hm.Cells))
	for i, cell := range hm.Cells {
		if i > 0 && cell.Date.Weekday() == time.Monday {
			col++
			weeks++
		}
		cols[i] = col
	}

	rows := make([]heatmapRow, len(analytics.WeekdayOrder))
	for i, day := range analytics.WeekdayOrder {
		rows[i] = heatmapRow{Weekday: day, Cells: make([]*analytics.HeatmapCell, weeks)}
	}
	for i := range hm.Cells {
		cell := &hm.Cells[i]
		row := (int(cell.Date.Weekday()) + 6) % 7
		rows[row].Cells[cols[i]] = cell
	}
	return rows
}

func weekdayBars(counts map[string]int, total int) []weekdayBar {
	bars := make([]weekdayBar, 0, len(analytics.WeekdayOrder))
	for _, day := range analytics.WeekdayOrder {
		bars = append(bars, weekdayBar{
			Label:   day,
			Count:   counts[day],
			Percent: percent(counts[day], total),
		})
	}
	return bars
}

func durationBars(stats analytics.DurationStats) []durationBar {
	bars := make([]durationBar, 0, len(analytics.DurationOrder))
	for _, label := range analytics.DurationOrder {
		bars = append(bars, durationBar{
			Label:   label,
			Count:   stats.Buckets[label],
			Percent: percent(stats.Buckets[label], stats.TimedCount),
		})
	}
	return bars
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}
