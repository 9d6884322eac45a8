package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

const (
	HEALTH  = "/healthz"
	READY   = "/readyz"
	METRICS = "/metrics"
	HTTP    = "/mcp/stream"
	SSE     = "/mcp/sse"
	API     = "/api"
)

// RouterConfig configures the HTTP surface.
type RouterConfig struct {
	Name    string
	Version string
	// Driver is reported by the info and database test endpoints.
	Driver string

	DefaultPerPage int
	MaxPerPage     int
	CORSOrigins    []string

	// StreamOptions passed to the MCP streamable HTTP handler (nil = defaults).
	StreamOptions *mcp.StreamableHTTPOptions
	// EnableSSE registers the SSE endpoint at /mcp/sse.
	EnableSSE bool
	// EnableStream registers the streamable HTTP endpoint at /mcp/stream.
	EnableStream bool
}

// api carries what every handler needs.
type api struct {
	store  *database.Store
	logger *slog.Logger
	cfg    *RouterConfig
}

// NewRouter returns an http.Handler serving the REST API and the probes.
//
// Endpoints:
//
//	GET  /                          - basic info and available endpoints
//	GET  /healthz                   - liveness probe ("ok")
//	GET  /readyz                    - readiness probe, pings the database
//	GET  /metrics                   - Prometheus exposition
//	*    /api/{table}[/{id}]        - CRUD for each of the six tables
//	GET  /api/arvores-completa/{id} - complete tree of one species
//	GET  /api/health                - API and database status
//	GET  /api/info                  - static API metadata
//	GET  /api/database/test         - database connectivity check
//	GET  /mcp/sse                   - MCP over Server-Sent Events (if EnableSSE)
//	POST /mcp/stream                - MCP streamable HTTP (if EnableStream)
func NewRouter(store *database.Store, mcpServer *mcp.Server, logger *slog.Logger, cfg *RouterConfig) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &RouterConfig{EnableStream: true}
	}
	if cfg.DefaultPerPage < 1 {
		cfg.DefaultPerPage = 100
	}
	if cfg.MaxPerPage < cfg.DefaultPerPage {
		cfg.MaxPerPage = cfg.DefaultPerPage
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	a := &api{store: store, logger: logger.With(slog.String("component", "router")), cfg: cfg}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(prometheusMetrics)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", a.index)
	r.Get(HEALTH, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get(READY, a.ready)
	r.Handle(METRICS, promhttp.Handler())

	r.Route(API, func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{"X-Total-Count", requestIDHeader},
			MaxAge:         300,
		}))

		mountResource(r, a, "especies", store.Species, speciesLookups)
		mountResource(r, a, "biomas", store.Biomes, biomeLookups)
		mountResource(r, a, "ocorrencias", store.Occurrences, occurrenceLookups)
		mountResource(r, a, "caracteristicas", store.Characteristics, characteristicLookups)
		mountResource(r, a, "curiosidades", store.Trivia, triviaLookups)
		mountResource(r, a, "dados-arvore", store.GrowthData, growthDataLookups)

		r.Get("/arvores-completa/{id}", a.completeTree)
		r.Get("/health", a.health)
		r.Get("/info", a.info)
		r.Head("/info", a.info)
		r.Get("/database/test", a.databaseTest)
	})

	if mcpServer != nil {
		getServer := func(*http.Request) *mcp.Server { return mcpServer }
		if cfg.EnableSSE {
			r.Handle(SSE, mcp.NewSSEHandler(getServer))
		}
		if cfg.EnableStream {
			r.Handle(HTTP, mcp.NewStreamableHTTPHandler(getServer, cfg.StreamOptions))
		}
	}

	return r
}

// index advertises the available endpoints.
func (a *api) index(w http.ResponseWriter, r *http.Request) {
	type endpoints struct {
		Health  string `json:"health"`
		Ready   string `json:"ready"`
		Metrics string `json:"metrics"`
		API     string `json:"api"`
		SSE     string `json:"sse,omitempty"`
		Stream  string `json:"stream,omitempty"`
	}
	info := struct {
		Name      string    `json:"name"`
		Version   string    `json:"version"`
		Timestamp time.Time `json:"timestamp"`
		Endpoints endpoints `json:"endpoints"`
	}{
		Name:      a.cfg.Name,
		Version:   a.cfg.Version,
		Timestamp: time.Now().UTC(),
		Endpoints: endpoints{
			Health:  HEALTH,
			Ready:   READY,
			Metrics: METRICS,
			API:     API + "/info",
		},
	}
	if a.cfg.EnableSSE {
		info.Endpoints.SSE = SSE
	}
	if a.cfg.EnableStream {
		info.Endpoints.Stream = HTTP
	}
	respondJSON(w, http.StatusOK, info)
}
