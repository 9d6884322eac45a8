package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jamesprial/arvores-brasileiras-api/internal/validation"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

func speciesLookups(r chi.Router, res *resource[database.Species]) {
	r.Get("/search", res.search("nome", []string{"NomeCientifico", "NomePopular"}, "NomePopular"))
	r.Get("/familia/{familia}", res.containing("familia", "Familia", "NomePopular"))
}

func biomeLookups(r chi.Router, res *resource[database.Biome]) {
	r.Get("/search", res.search("nome", []string{"Nome"}, "Nome"))
	r.Get("/regiao/{regiao}", res.containing("regiao", "Regiao", "Nome"))
}

func occurrenceLookups(r chi.Router, res *resource[database.Occurrence]) {
	r.Get("/especie/{especieID}", res.equal("especieID", "EspecieID"))
	r.Get("/bioma/{biomaID}", res.equal("biomaID", "BiomaID"))
	r.Get("/frequencia/{frequencia}", res.containing("frequencia", "Frequencia", ""))
}

func characteristicLookups(r chi.Router, res *resource[database.Characteristic]) {
	r.Get("/especie/{especieID}", res.equal("especieID", "EspecieID"))
	r.Get("/tipo-folha/{tipo}", res.containing("tipo", "TipoFolha", ""))
	r.Get("/altura-range", res.inRange("AlturaMedia"))
}

func triviaLookups(r chi.Router, res *resource[database.Trivia]) {
	r.Get("/especie/{especieID}", res.equal("especieID", "EspecieID"))
	r.Get("/search", res.search("texto", []string{"Texto"}, ""))
	r.Get("/fonte/{fonte}", res.containing("fonte", "Fonte", ""))
}

func growthDataLookups(r chi.Router, res *resource[database.GrowthData]) {
	r.Get("/especie/{especieID}", res.equal("especieID", "EspecieID"))
	r.Get("/tempo-vida-range", res.inRange("TempoDeVidaEstimado"))
	r.Get("/crescimento-range", res.inRange("CrescimentoAnual"))
	r.Get("/densidade-range", res.inRange("DensidadeMadeira"))
}

// search matches a required query parameter against any of fields.
func (res *resource[T]) search(param string, fields []string, orderBy string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get(param)
		if err := validation.Get().Var(term, "required,searchtext"); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("query parameter %q is required and must be printable text", param))
			return
		}
		recs, err := res.repo.FindContaining(r.Context(), fields, term, orderBy, expandRequested(r))
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		respondJSON(w, http.StatusOK, recs)
	}
}

// containing matches a path parameter as a substring of field.
func (res *resource[T]) containing(param, field, orderBy string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := pathParam(r, param)
		if err := validation.SearchText(term); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		recs, err := res.repo.FindContaining(r.Context(), []string{field}, term, orderBy, expandRequested(r))
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		respondJSON(w, http.StatusOK, recs)
	}
}

// equal matches an integer path parameter against field.
func (res *resource[T]) equal(param, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, param)
		if !ok {
			return
		}
		recs, err := res.repo.FindEqual(r.Context(), field, id, expandRequested(r))
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		respondJSON(w, http.StatusOK, recs)
	}
}

// inRange filters field by the optional inclusive min and max query parameters.
func (res *resource[T]) inRange(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lo, err := floatQuery(r, "min")
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		hi, err := floatQuery(r, "max")
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		recs, err := res.repo.FindInRange(r.Context(), field, lo, hi, expandRequested(r))
		if err != nil {
			respondStoreError(w, err, "")
			return
		}
		respondJSON(w, http.StatusOK, recs)
	}
}

func floatQuery(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// pathParam returns a decoded path parameter. chi matches on the raw path
// when the request carried escapes it had to preserve.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
