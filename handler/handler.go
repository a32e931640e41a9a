// Package handler serves the dashboard page and the price endpoints
package handler

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sljivkov/bonkboard/domain"
	"github.com/sljivkov/bonkboard/games"
	"github.com/sljivkov/bonkboard/metrics"
	"github.com/sljivkov/bonkboard/pricefeed"
	"github.com/sljivkov/bonkboard/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler serves the dashboard
type Handler struct {
	store        *pricefeed.Store
	assets       []render.Asset
	games        []games.Game
	metrics      *metrics.Metrics
	log          zerolog.Logger
	readyTimeout time.Duration
	refresh      time.Duration
}

// New creates the dashboard handler. refresh is how often the page reloads
// the price widget.
func New(store *pricefeed.Store, assets []render.Asset, catalog []games.Game, m *metrics.Metrics, refresh time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		store:        store,
		assets:       assets,
		games:        catalog,
		metrics:      m,
		log:          log.With().Str("component", "http").Logger(),
		readyTimeout: 3 * time.Second,
		refresh:      refresh,
	}
}

// Routes returns the dashboard router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/", h.dashboard)
	r.Get("/widget", h.widget)
	r.Get("/api/prices", h.prices)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	return r
}

type dashboardView struct {
	Games         []games.Game
	Ready         bool
	Widget        render.Widget
	RefreshMillis int64
}

func (h *Handler) dashboard(w http.ResponseWriter, _ *http.Request) {
	widget, ready := render.Render(h.store.Snapshot(), h.assets)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := templates.ExecuteTemplate(w, "dashboard", dashboardView{
		Games:         h.games,
		Ready:         ready,
		Widget:        widget,
		RefreshMillis: h.refresh.Milliseconds(),
	}); err != nil {
		h.log.Error().Err(err).Msg("failed to render dashboard")
	}
}

func (h *Handler) widget(w http.ResponseWriter, _ *http.Request) {
	widget, ready := render.Render(h.store.Snapshot(), h.assets)
	if !ready {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := templates.ExecuteTemplate(w, "pricebox", widget); err != nil {
		h.log.Error().Err(err).Msg("failed to render price widget")
	}
}

type pricesResponse struct {
	Loading bool                `json:"loading"`
	Ready   bool                `json:"ready"`
	Quotes  []domain.AssetQuote `json:"quotes"`
	Display []string            `json:"display,omitempty"`
}

func (h *Handler) prices(w http.ResponseWriter, r *http.Request) {
	// Wait until the first cycle has settled
	select {
	case <-h.store.Settled():
	case <-r.Context().Done():
		return
	case <-time.After(h.readyTimeout):
		http.Error(w, "prices not ready", http.StatusServiceUnavailable)
		return
	}

	state := h.store.Snapshot()
	resp := pricesResponse{
		Loading: state.Loading,
		Quotes:  make([]domain.AssetQuote, 0, len(state.Assets)),
	}

	for _, id := range state.Assets {
		q, _ := state.Quote(id)
		resp.Quotes = append(resp.Quotes, q)
	}

	if widget, ok := render.Render(state, h.assets); ok {
		resp.Ready = true
		for _, row := range widget.Rows {
			resp.Display = append(resp.Display, row.String())
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
