// Package google wraps the Google Calendar API behind the small surface the
// dashboard needs: list events in a range and insert a new event, against the
// account's primary calendar.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"calassist/internal/metrics"
	"calassist/internal/models"
)

const primaryCalendarID = "primary"

// Client is an authenticated Google Calendar API client.
type Client struct {
	service *gcal.Service
	logger  *slog.Logger
}

// NewClient builds a calendar service from an authenticated client option
// (token source or HTTP client).
func NewClient(ctx context.Context, logger *slog.Logger, auth option.ClientOption) (*Client, error) {
	service, err := gcal.NewService(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: service, logger: logger}, nil
}

// ListEvents fetches single events in [from, to] from the primary calendar,
// in chronological order, bounded by maxResults. Records the API cannot
// represent cleanly (malformed start/end values) are skipped with a warning
// rather than failing the whole request.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time, maxResults int64) ([]models.Event, error) {
	defer metrics.ObserveGoogleAPI(ctx, "events.list", time.Now())

	result, err := c.service.Events.List(primaryCalendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	events := make([]models.Event, 0, len(result.Items))
	for _, item := range result.Items {
		ev, err := fromAPI(item)
		if err != nil {
			c.logger.Warn("Skipping malformed event from API", "id", item.Id, "error", err)
			continue
		}
		events = append(events, ev)
	}

	c.logger.Debug("Fetched events from Google Calendar", "count", len(events))
	return events, nil
}

// InsertEvent creates a new event on the primary calendar and returns the
// created record, including the HTML link the API assigns.
func (c *Client) InsertEvent(ctx context.Context, draft models.Draft) (models.Event, error) {
	defer metrics.ObserveGoogleAPI(ctx, "events.insert", time.Now())

	created, err := c.service.Events.Insert(primaryCalendarID, draftToAPI(draft)).
		Context(ctx).
		Do()
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	ev, err := fromAPI(created)
	if err != nil {
		return models.Event{}, fmt.Errorf("created event came back malformed: %w", err)
	}
	c.logger.Info("Created event", "id", ev.ID, "title", ev.Title)
	return ev, nil
}

// fromAPI converts an API event into the transient local model.
func fromAPI(item *gcal.Event) (models.Event, error) {
	if item.Start == nil {
		return models.Event{}, fmt.Errorf("event %s has no start", item.Id)
	}

	start, err := models.ParseMarker(markerValue(item.Start))
	if err != nil {
		return models.Event{}, err
	}

	ev := models.Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Start:       start,
		ColorID:     item.ColorId,
		HTMLLink:    item.HtmlLink,
	}

	if item.End != nil {
		end, err := models.ParseMarker(markerValue(item.End))
		if err != nil {
			return models.Event{}, err
		}
		ev.End = end
	}
	return ev, nil
}

func markerValue(edt *gcal.EventDateTime) string {
	if edt.DateTime != "" {
		return edt.DateTime
	}
	return edt.Date
}

// draftToAPI builds the insert payload. All-day drafts span [date, date+1d)
// as date-only markers; timed drafts are UTC date-times running for the
// requested duration.
func draftToAPI(d models.Draft) *gcal.Event {
	ev := &gcal.Event{
		Summary:     d.Title,
		Description: d.Description,
		Location:    d.Location,
		ColorId:     d.ColorID,
	}

	if d.AllDay {
		ev.Start = &gcal.EventDateTime{
			Date:     d.Date.Format("2006-01-02"),
			TimeZone: "UTC",
		}
		ev.End = &gcal.EventDateTime{
			Date:     d.Date.AddDate(0, 0, 1).Format("2006-01-02"),
			TimeZone: "UTC",
		}
	} else {
		// Date carries the day, Start only the time of day.
		start := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(),
			d.Start.Hour(), d.Start.Minute(), 0, 0, time.UTC)
		end := start.Add(time.Duration(d.DurationMinutes) * time.Minute)
		ev.Start = &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: "UTC",
		}
		ev.End = &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: "UTC",
		}
	}

	if len(d.Reminders) > 0 {
		reminders := &gcal.EventReminders{
			UseDefault: false,
			// UseDefault=false must be serialized explicitly to override the
			// calendar default.
			ForceSendFields: []string{"UseDefault"},
		}
		for _, r := range d.Reminders {
			method := r.Method
			if method == "" {
				method = "popup"
			}
			reminders.Overrides = append(reminders.Overrides, &gcal.EventReminder{
				Method:  method,
				Minutes: r.Minutes,
			})
		}
		ev.Reminders = reminders
	}

	return ev
}
