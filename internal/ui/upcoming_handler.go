package ui

import (
	"net/http"

	"calassist/internal/analytics"
	"calassist/internal/auth"
	"calassist/internal/http/errors"
)

// Upcoming lists events in the selected date range, grouped by calendar day.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	email, _ := auth.EmailFromContext(r.Context())

	from, to := h.parseDateRange(r, today(), today().AddDate(0, 0, 14))
	maxResults := h.parseMaxResults(r)

	data := h.withFlash(r, map[string]any{
		"Title": "Upcoming Events",
		"Email": email,
		"From":  from,
		"To":    to,
		"Max":   maxResults,
	})

	if from.After(to) {
		data["FlashError"] = "end date must be after start date"
		h.render(w, r, "upcoming.html", data)
		return
	}

	lo, hi := rangeBounds(from, to)
	events, err := h.cal.ListEvents(r.Context(), lo, hi, maxResults)
	if err != nil {
		errors.LogError(r, "failed to list events", err)
		data["FlashError"] = "failed to load events"
		h.render(w, r, "upcoming.html", data)
		return
	}

	data["Groups"] = analytics.GroupByDay(events)
	data["Total"] = len(events)
	h.render(w, r, "upcoming.html", data)
}
