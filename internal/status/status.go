// Package status serves a read-only JSON view of the ad placement registry
// next to the SSH server.
package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

// Placement is the JSON shape of one registry entry.
type Placement struct {
	PlacementID string     `json:"placement_id"`
	State       string     `json:"state"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Stale       bool       `json:"stale"`
	Ad          *AdInfo    `json:"ad,omitempty"`
}

// AdInfo is the JSON shape of a held ad.
type AdInfo struct {
	ResponseID string `json:"response_id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	Advertiser string `json:"advertiser"`
	DurationMS int64  `json:"duration_ms"`
}

// Handler serves the registry.
type Handler struct {
	reg *registry.Registry
	now func() time.Time
}

// NewHandler creates a handler for reg. now defaults to time.Now.
func NewHandler(reg *registry.Registry, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{reg: reg, now: now}
}

// Router returns the HTTP routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/healthz", h.Health)
	r.Route("/placements", func(rr chi.Router) {
		rr.Get("/", h.List)
		// Placement ids contain slashes, so the id is the rest of the path.
		rr.Get("/*", h.Get)
	})

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"placements": h.reg.Len(),
	})
}

// List returns every placement sorted by id.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	entries := h.reg.List()
	out := make([]Placement, len(entries))
	for i, e := range entries {
		out[i] = toPlacement(e, now)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one placement. Unknown ids are not created.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if _, ok := h.reg.Lookup(id); !ok {
		http.Error(w, "placement not found", http.StatusNotFound)
		return
	}
	for _, e := range h.reg.List() {
		if e.PlacementID == id {
			writeJSON(w, http.StatusOK, toPlacement(e, h.now()))
			return
		}
	}
	http.Error(w, "placement not found", http.StatusNotFound)
}

func toPlacement(e registry.Entry, now time.Time) Placement {
	p := Placement{
		PlacementID: e.PlacementID,
		State:       e.State.String(),
	}
	if e.State != ads.StateLoaded {
		return p
	}
	until := e.ValidUntil
	p.ValidUntil = &until
	p.Stale = !now.Before(until)
	p.Ad = &AdInfo{
		ResponseID: e.Ad.ResponseID,
		Source:     e.Ad.Source,
		Title:      e.Ad.Title,
		Advertiser: e.Ad.Advertiser,
		DurationMS: e.Ad.Duration.Milliseconds(),
	}
	return p
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	//nolint:errcheck // Client went away
	json.NewEncoder(w).Encode(v)
}
