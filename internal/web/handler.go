// Package web renders the portal pages. The event cards follow the markup contract
// read back by the markup package.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"campus-portal/internal/actions"
	"campus-portal/internal/analytics"
	"campus-portal/internal/events/filter"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"
	"campus-portal/internal/navigation"
	"campus-portal/internal/registration"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var htmlTemplates embed.FS

type EventCatalog interface {
	Filter(criteria models.FilterCriteria) []models.Visibility
	Records() []models.EventRecord
	VisibleEvents(criteria models.FilterCriteria) []models.EventRecord
	Facets() models.Facets
}

type StatsSource interface {
	Stats(ctx context.Context) (*analytics.DashboardStats, error)
}

type Registrar interface {
	Register(ctx context.Context, surface models.Surface, eventID string) (models.ControlState, error)
	State(surface models.Surface, eventID string) models.ControlState
}

type ActionPerformer interface {
	Perform(action, name string) (models.Notification, error)
}

type Notices interface {
	Active() []models.Notification
	Dismiss(id string) bool
}

type Handler struct {
	Catalog       EventCatalog
	Stats         StatsSource
	Registrations Registrar
	Actions       ActionPerformer
	Notices       Notices
	Logger        *logger.Logger

	tpl *template.Template
}

// Card is one rendered event card.
type Card struct {
	Event   models.EventRecord
	View    models.Visibility
	Control models.ControlState
}

// Style renders the card's visibility as an inline style.
func (c Card) Style() template.CSS {
	if !c.View.Visible {
		return template.CSS("display:" + c.View.Display)
	}
	return template.CSS("display:" + c.View.Display + ";animation:" + c.View.Animation)
}

// Toast is one notification on screen.
type Toast struct {
	models.Notification
}

func (t Toast) Style() template.CSS {
	return template.CSS("background-color:" + t.Color)
}

type pageData struct {
	Nav           navigation.State
	Page          string
	Criteria      models.FilterCriteria
	Facets        models.Facets
	Cards         []Card
	Upcoming      []Card
	Stats         *analytics.DashboardStats
	Announcements []string
	Clubs         []string
	Toasts        []Toast
}

// Clubs are the memberships shown on the profile page.
var Clubs = []string{"Tech Innovation Club", "Photography Society", "Environmental Action"}

func NewHandler(catalog EventCatalog, stats StatsSource, regs Registrar, acts ActionPerformer, notices Notices, log *logger.Logger) *Handler {
	return &Handler{
		Catalog:       catalog,
		Stats:         stats,
		Registrations: regs,
		Actions:       acts,
		Notices:       notices,
		Logger:        log,
		tpl:           template.Must(template.ParseFS(htmlTemplates, "templates/*.html")),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/pages/{pageID}", h.Page)
	r.Get("/shortcuts", h.Shortcut)

	r.Post("/register/{eventID}", h.Register)
	r.Post("/actions/{action}", h.PerformAction)
	r.Post("/notifications/{notificationID}/dismiss", h.Dismiss)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, navigation.Dashboard)
}

// Page renders pageID. Unknown pages still render the shell with nothing active.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, chi.URLParam(r, "pageID"))
}

// Shortcut redirects a keyboard shortcut (?key=1&alt=true) to its page.
// Keys without a page answer 204 so the browser stays where it is.
func (h *Handler) Shortcut(w http.ResponseWriter, r *http.Request) {
	alt, _ := strconv.ParseBool(r.URL.Query().Get("alt"))
	pageID, ok := navigation.Shortcut(r.URL.Query().Get("key"), alt)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/pages/"+pageID, http.StatusSeeOther)
}

// Register handles a register button form and returns to the page it was clicked on.
// The events page keeps its filter criteria across the redirect.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	surface, err := registration.ParseSurface(r.Form.Get("surface"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.Registrations.Register(r.Context(), surface, chi.URLParam(r, "eventID")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	target := "/pages/" + navigation.Dashboard
	if surface == models.SurfaceEvents {
		target = "/pages/" + navigation.Events
		if q := criteriaQuery(filter.ParseCriteria(r.Form)); q != "" {
			target += "?" + q
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// PerformAction handles the info buttons. Unknown actions show nothing.
func (h *Handler) PerformAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	action := chi.URLParam(r, "action")
	if _, err := h.Actions.Perform(action, r.Form.Get("name")); err != nil && !errors.Is(err, actions.ErrUnknownAction) {
		h.Logger.Error("WEB", fmt.Sprintf("Action %s failed: %v", action, err))
	}
	http.Redirect(w, r, returnTo(r.Form.Get("page")), http.StatusSeeOther)
}

func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.Notices.Dismiss(chi.URLParam(r, "notificationID"))
	http.Redirect(w, r, returnTo(r.Form.Get("page")), http.StatusSeeOther)
}

// returnTo only redirects to known pages.
func returnTo(pageID string) string {
	if p, ok := navigation.Lookup(pageID); ok {
		return "/pages/" + p.ID
	}
	return "/"
}

func criteriaQuery(c models.FilterCriteria) string {
	q := url.Values{}
	if c.SearchTerm != "" {
		q.Set("search", c.SearchTerm)
	}
	if c.Campus != "" {
		q.Set("campus", c.Campus)
	}
	if c.Category != "" {
		q.Set("category", c.Category)
	}
	if c.DateBucket != models.DateAny {
		q.Set("date", string(c.DateBucket))
	}
	return q.Encode()
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, pageID string) {
	nav := navigation.Resolve(pageID)
	data := pageData{Nav: nav, Page: nav.Active}

	switch nav.Active {
	case navigation.Dashboard:
		data.Upcoming = h.cards(models.SurfaceDashboard, h.Catalog.VisibleEvents(models.FilterCriteria{DateBucket: models.DateWeek}), nil)
		data.Announcements = actions.Announcements
		if h.Stats != nil {
			stats, err := h.Stats.Stats(r.Context())
			if err != nil {
				h.Logger.Warn("WEB", fmt.Sprintf("Dashboard stats unavailable: %v", err))
			} else {
				data.Stats = stats
			}
		}
	case navigation.Profile:
		data.Clubs = Clubs
	case navigation.Events:
		data.Criteria = filter.ParseCriteria(r.URL.Query())
		data.Facets = h.Catalog.Facets()
		data.Cards = h.cards(models.SurfaceEvents, h.Catalog.Records(), h.Catalog.Filter(data.Criteria))
	}

	if h.Notices != nil {
		for _, n := range h.Notices.Active() {
			data.Toasts = append(data.Toasts, Toast{Notification: n})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.Logger.Error("WEB", fmt.Sprintf("Failed to render %q: %v", pageID, err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// cards pairs records with their visibility. A nil views slice shows every card.
func (h *Handler) cards(surface models.Surface, records []models.EventRecord, views []models.Visibility) []Card {
	out := make([]Card, len(records))
	for i, e := range records {
		view := models.Visibility{EventID: e.ID, Visible: true, Display: models.DisplayShown, Animation: models.FadeIn}
		if views != nil && i < len(views) {
			view = views[i]
		}
		card := Card{Event: e, View: view}
		if h.Registrations != nil {
			card.Control = h.Registrations.State(surface, e.ID)
		}
		out[i] = card
	}
	return out
}
