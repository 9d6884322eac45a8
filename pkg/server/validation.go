package server

import (
	"fmt"

	"github.com/jamesprial/arvores-brasileiras-api/internal/validation"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

const (
	DefaultPerPage = 100
	MaxPerPage     = 1000
	MaxFilters     = 16
)

// Limits bounds the paging of list tools.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

func DefaultLimits() Limits {
	return Limits{DefaultPerPage: DefaultPerPage, MaxPerPage: MaxPerPage}
}

type listRequest struct {
	Page    int `json:"page" validate:"gte=1"`
	PerPage int `json:"per_page" validate:"gte=1"`
}

// ListOptions applies defaults to params, rejects non-positive paging and
// caps per_page at the maximum.
func (l Limits) ListOptions(params ListParams) (database.ListOptions, error) {
	req := listRequest{Page: params.Page, PerPage: params.PerPage}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage == 0 {
		req.PerPage = l.DefaultPerPage
	}
	if err := validation.Struct(req); err != nil {
		return database.ListOptions{}, err
	}
	if l.MaxPerPage > 0 && req.PerPage > l.MaxPerPage {
		req.PerPage = l.MaxPerPage
	}

	if len(params.Filters) > MaxFilters {
		return database.ListOptions{}, fmt.Errorf("at most %d filters are allowed", MaxFilters)
	}
	for col, v := range params.Filters {
		if err := validation.SearchText(v); err != nil {
			return database.ListOptions{}, fmt.Errorf("filter %s: %w", col, err)
		}
	}

	return database.ListOptions{
		Page:    req.Page,
		PerPage: req.PerPage,
		Filters: params.Filters,
		Expand:  params.IncludeRelationships,
	}, nil
}

type idRequest struct {
	ID int64 `json:"id" validate:"gte=1"`
}

// ValidateGetParams validates get_<table> parameters
func ValidateGetParams(params GetParams) error {
	return validation.Struct(idRequest{ID: params.ID})
}

// ValidateCompleteTreeParams validates complete_tree parameters
func ValidateCompleteTreeParams(params CompleteTreeParams) error {
	return validation.Struct(struct {
		SpeciesID int64 `json:"species_id" validate:"gte=1"`
	}{params.SpeciesID})
}

// ValidateSearchSpeciesParams validates search_species parameters
func ValidateSearchSpeciesParams(params SearchSpeciesParams) error {
	return validation.Struct(struct {
		Nome string `json:"nome" validate:"required,searchtext"`
	}{params.Nome})
}
