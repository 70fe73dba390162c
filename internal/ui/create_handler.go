package ui

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"calassist/internal/auth"
	"calassist/internal/http/errors"
	"calassist/internal/models"
)

// durationChoices are the preset lengths offered on the create form, in minutes.
// Zero stands for a custom value entered by hand.
var durationChoices = []struct {
	Minutes int
	Label   string
}{
	{15, "15 minutes"},
	{30, "30 minutes"},
	{45, "45 minutes"},
	{60, "1 hour"},
	{90, "1.5 hours"},
	{120, "2 hours"},
	{180, "3 hours"},
	{0, "Custom"},
}

// colorChoices maps display names to Google Calendar color IDs.
var colorChoices = []struct {
	ID   string
	Name string
}{
	{"", "Default"},
	{"1", "Lavender"},
	{"2", "Sage"},
	{"3", "Grape"},
	{"4", "Flamingo"},
	{"5", "Banana"},
	{"6", "Tangerine"},
	{"7", "Peacock"},
	{"8", "Graphite"},
	{"9", "Blueberry"},
	{"10", "Basil"},
	{"11", "Tomato"},
}

// reminderChoices are the popup notification offsets offered on the form.
var reminderChoices = []struct {
	Minutes int64
	Label   string
}{
	{10, "10 minutes before"},
	{30, "30 minutes before"},
	{60, "1 hour before"},
	{1440, "1 day before"},
}

func (h *Handler) createFormData(r *http.Request) map[string]any {
	email, _ := auth.EmailFromContext(r.Context())
	return h.withFlash(r, map[string]any{
		"Title":     "Create Event",
		"Email":     email,
		"Durations": durationChoices,
		"Colors":    colorChoices,
		"Reminders": reminderChoices,
		"Date":      today().Format(dateParamLayout),
		"StartTime": "09:00",
	})
}

// CreateForm renders the event creation form.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "create.html", h.createFormData(r))
}

// CreateEvent validates the submitted form and inserts the event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.BadRequestError(w, r, err, "invalid form data")
		return
	}

	draft, formErr := draftFromForm(r)
	if formErr != "" {
		data := h.createFormData(r)
		data["FlashError"] = formErr
		data["Form"] = r.PostForm
		h.render(w, r, "create.html", data)
		return
	}

	created, err := h.cal.InsertEvent(r.Context(), draft)
	if err != nil {
		errors.LogError(r, "failed to insert event", err)
		data := h.createFormData(r)
		data["FlashError"] = "failed to create event"
		data["Form"] = r.PostForm
		h.render(w, r, "create.html", data)
		return
	}

	data := h.createFormData(r)
	data["Created"] = created
	data["FlashMessage"] = "event created"
	h.render(w, r, "create.html", data)
}

func draftFromForm(r *http.Request) (models.Draft, string) {
	var draft models.Draft

	draft.Title = strings.TrimSpace(r.PostFormValue("title"))
	if draft.Title == "" {
		return draft, "title is required"
	}
	draft.Description = strings.TrimSpace(r.PostFormValue("description"))
	draft.Location = strings.TrimSpace(r.PostFormValue("location"))
	draft.ColorID = r.PostFormValue("color_id")

	date, err := time.ParseInLocation(dateParamLayout, r.PostFormValue("date"), time.UTC)
	if err != nil {
		return draft, "invalid date"
	}
	draft.Date = date

	draft.AllDay = r.PostFormValue("all_day") == "on"
	if !draft.AllDay {
		start, err := time.ParseInLocation("15:04", r.PostFormValue("start_time"), time.UTC)
		if err != nil {
			return draft, "invalid start time"
		}
		draft.Start = start

		minutes, err := strconv.Atoi(r.PostFormValue("duration"))
		if err != nil {
			return draft, "invalid duration"
		}
		if minutes == 0 {
			minutes, err = strconv.Atoi(r.PostFormValue("custom_duration"))
			if err != nil || minutes <= 0 {
				return draft, "custom duration must be a positive number of minutes"
			}
		}
		draft.DurationMinutes = minutes
	}

	for _, raw := range r.PostForm["reminders"] {
		minutes, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return draft, "invalid reminder"
		}
		draft.Reminders = append(draft.Reminders, models.Reminder{Method: "popup", Minutes: minutes})
	}

	return draft, ""
}
