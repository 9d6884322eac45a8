package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jamesprial/arvores-brasileiras-api/internal/logging"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

const pingTimeout = 2 * time.Second

func (a *api) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return a.store.DB().Ping(ctx)
}

func (a *api) ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := a.ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type treeResponse struct {
	Tree []database.TreeEntry `json:"tree"`
}

func (a *api) completeTree(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	entries, err := a.store.CompleteTree(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, fmt.Sprintf("no tree found for species %d", id))
		return
	}
	respondJSON(w, http.StatusOK, treeResponse{Tree: entries})
}

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Version  string `json:"version"`
	Error    string `json:"error,omitempty"`
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "healthy",
		Message:  a.cfg.Name + " is running",
		Database: "connected",
		Version:  a.cfg.Version,
	}
	status := http.StatusOK
	if err := a.ping(r.Context()); err != nil {
		logging.LoggerWithContext(r.Context(), a.logger).Error("health check failed", slog.String("error", err.Error()))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

type infoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Database    string            `json:"database"`
	Endpoints   map[string]string `json:"endpoints"`
	Methods     []string          `json:"methods"`
	Features    []string          `json:"features"`
}

func (a *api) info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, infoResponse{
		Name:        a.cfg.Name,
		Version:     a.cfg.Version,
		Description: "REST API over a dataset of Brazilian tree species, biomes and related data",
		Database:    a.cfg.Driver,
		Endpoints: map[string]string{
			"especies":         API + "/especies",
			"biomas":           API + "/biomas",
			"ocorrencias":      API + "/ocorrencias",
			"caracteristicas":  API + "/caracteristicas",
			"curiosidades":     API + "/curiosidades",
			"dados_arvore":     API + "/dados-arvore",
			"arvores_completa": API + "/arvores-completa/{id}",
		},
		Methods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"},
		Features: []string{
			"CRUD for every table",
			"pagination",
			"substring filters",
			"optional relationships",
			"auxiliary lookups",
		},
	})
}

type databaseTestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Driver  string `json:"driver"`
	Error   string `json:"error,omitempty"`
}

func (a *api) databaseTest(w http.ResponseWriter, r *http.Request) {
	if err := a.ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, databaseTestResponse{
			Status:  "error",
			Message: "database connection failed",
			Driver:  a.cfg.Driver,
			Error:   err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, databaseTestResponse{
		Status:  "success",
		Message: "database connection established",
		Driver:  a.cfg.Driver,
	})
}
