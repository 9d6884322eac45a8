package router

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jamesprial/arvores-brasileiras-api/internal/logging"
	"github.com/jamesprial/arvores-brasileiras-api/internal/validation"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

// Query parameters with a meaning of their own; every other parameter of a
// list request is a column filter.
const (
	paramPage    = "page"
	paramPerPage = "per_page"
	paramExpand  = "include_relationships"
)

// resource serves the standard routes of one table.
type resource[T any] struct {
	*api
	table string
	repo  *database.Repository[T]
}

type listQuery struct {
	Page    int `query:"page" validate:"gte=1"`
	PerPage int `query:"per_page" validate:"gte=1"`
}

// mountResource registers list, count, create, get, exists, update and
// delete under /slug. Extra routes are registered by lookups before the
// /{id} subtree so static segments win.
func mountResource[T any](r chi.Router, a *api, slug string, repo *database.Repository[T], lookups func(chi.Router, *resource[T])) {
	res := &resource[T]{api: a, table: repo.Descriptor().Table(), repo: repo}

	r.Route("/"+slug, func(r chi.Router) {
		r.Use(res.tagEntity)
		r.Get("/", res.list)
		r.Head("/", res.count)
		r.Post("/", res.create)
		if lookups != nil {
			lookups(r, res)
		}
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", res.get)
			r.Head("/", res.exists)
			r.Put("/", res.update)
			r.Patch("/", res.update)
			r.Delete("/", res.delete)
		})
	})
}

func (res *resource[T]) tagEntity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithEntity(r.Context(), res.table)))
	})
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	opts, err := res.listOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := res.repo.List(r.Context(), opts)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (res *resource[T]) count(w http.ResponseWriter, r *http.Request) {
	total, err := res.repo.Count(r.Context(), filtersFrom(r))
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	w.WriteHeader(http.StatusOK)
}

func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	rec, err := res.repo.Get(r.Context(), id, expandRequested(r))
	if err != nil {
		respondStoreError(w, err, res.notFound(id))
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (res *resource[T]) exists(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	ok, err := res.repo.Exists(r.Context(), id)
	switch {
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
	case ok:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := res.repo.Create(r.Context(), body)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

// update serves both PUT and PATCH: supplied fields are replaced, the rest kept.
func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := res.repo.Update(r.Context(), id, body)
	if err != nil {
		respondStoreError(w, err, res.notFound(id))
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (res *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	deleted, err := res.repo.Delete(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, res.notFound(id))
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("%s %d deleted", res.table, id)})
}

func (res *resource[T]) notFound(id int64) string {
	return fmt.Sprintf("%s %d not found", res.table, id)
}

func (res *resource[T]) listOptions(r *http.Request) (database.ListOptions, error) {
	q := r.URL.Query()
	lq := listQuery{Page: 1, PerPage: res.cfg.DefaultPerPage}

	if v := q.Get(paramPage); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return database.ListOptions{}, fmt.Errorf("page must be an integer")
		}
		lq.Page = n
	}
	if v := q.Get(paramPerPage); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return database.ListOptions{}, fmt.Errorf("per_page must be an integer")
		}
		lq.PerPage = n
	}
	if err := validation.Struct(lq); err != nil {
		return database.ListOptions{}, err
	}
	if lq.PerPage > res.cfg.MaxPerPage {
		lq.PerPage = res.cfg.MaxPerPage
	}

	return database.ListOptions{
		Page:    lq.Page,
		PerPage: lq.PerPage,
		Filters: filtersFrom(r),
		Expand:  expandRequested(r),
	}, nil
}

// filtersFrom collects every non-reserved query parameter. The repository
// ignores names that are not columns.
func filtersFrom(r *http.Request) map[string]string {
	filters := map[string]string{}
	for key, values := range r.URL.Query() {
		switch key {
		case paramPage, paramPerPage, paramExpand:
			continue
		}
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return filters
}

func expandRequested(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get(paramExpand), "true")
}

// idParam parses an integer path parameter, answering 400 when it is not one.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw))
		return 0, false
	}
	return id, true
}
