package ui

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"calassist/internal/auth"
	"calassist/internal/config"
	"calassist/internal/models"
)

// CalendarService is the remote calendar surface the views consume.
type CalendarService interface {
	Connected() bool
	ListEvents(ctx context.Context, from, to time.Time, maxResults int64) ([]models.Event, error)
	InsertEvent(ctx context.Context, draft models.Draft) (models.Event, error)
}

// Handler serves the server-rendered dashboard pages.
type Handler struct {
	cfg       *config.Config
	cal       CalendarService
	templates map[string]*template.Template
}

func NewHandler(cfg *config.Config, cal CalendarService) *Handler {
	return &Handler{cfg: cfg, cal: cal, templates: templates}
}

// Welcome renders the landing page. A browser that already holds a session
// for a connected account is sent straight to the upcoming view.
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.EmailFromContext(r.Context()); ok && h.cal.Connected() {
		h.redirect(w, r, "/upcoming", nil)
		return
	}

	data := h.withFlash(r, map[string]any{
		"Title": "Welcome",
	})
	h.render(w, r, "welcome.html", data)
}
