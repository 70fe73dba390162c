package ui

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"calassist/internal/http/csrf"
	"calassist/internal/http/errors"
)

const (
	defaultMaxResults   = 10
	maxMaxResults       = 50
	analyticsMaxResults = 1000
	dateParamLayout     = "2006-01-02"
)

// parseDateRange extracts from/to date query parameters, falling back to the
// given defaults. Inputs are HTML date values, interpreted as UTC dates.
func (h *Handler) parseDateRange(r *http.Request, defaultFrom, defaultTo time.Time) (from, to time.Time) {
	from = defaultFrom
	to = defaultTo

	if v := r.URL.Query().Get("from"); v != "" {
		if parsed, err := time.Parse(dateParamLayout, v); err == nil {
			from = parsed
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if parsed, err := time.Parse(dateParamLayout, v); err == nil {
			to = parsed
		}
	}
	return from, to
}

// parseMaxResults extracts the bounded result count for the upcoming view.
func (h *Handler) parseMaxResults(r *http.Request) int64 {
	if v := r.URL.Query().Get("max"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= maxMaxResults {
			return int64(parsed)
		}
	}
	return defaultMaxResults
}

// rangeBounds widens a pair of dates to the full days they denote:
// [from 00:00:00, to 23:59:59] UTC.
func rangeBounds(from, to time.Time) (time.Time, time.Time) {
	lo := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	hi := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
	return lo, hi
}

// today returns the current date at midnight UTC.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// withFlash adds flash messages and the CSRF token to template data.
func (h *Handler) withFlash(r *http.Request, data map[string]any) map[string]any {
	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		data["FlashMessage"] = status
	}
	if err := q.Get("error"); err != "" {
		data["FlashError"] = err
	}
	if csrfToken := csrf.TokenFromContext(r.Context()); csrfToken != "" {
		data["CSRFToken"] = csrfToken
	}
	return data
}

// redirect redirects to a path with query parameters.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string, params map[string]string) {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	location := path
	if encoded := q.Encode(); encoded != "" {
		location += "?" + encoded
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// render executes a page template and writes the response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		errors.InternalError(w, r, fmt.Errorf("template not found"), fmt.Sprintf("template %q not found", name))
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		errors.InternalError(w, r, err, fmt.Sprintf("template render error for %q", name))
	}
}
