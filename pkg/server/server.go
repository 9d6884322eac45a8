package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jamesprial/arvores-brasileiras-api/internal/logging"
	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

type Server struct {
	store  *database.Store
	logger *slog.Logger
	limits Limits
}

type ListParams struct {
	Page                 int               `json:"page,omitempty" jsonschema:"Page number, starting at 1 (default 1)"`
	PerPage              int               `json:"per_page,omitempty" jsonschema:"Records per page (default 100)"`
	Filters              map[string]string `json:"filters,omitempty" jsonschema:"Column name to case-sensitive substring; unknown columns are ignored"`
	IncludeRelationships bool              `json:"include_relationships,omitempty" jsonschema:"Attach related records to each result"`
}

type GetParams struct {
	ID                   int64 `json:"id" jsonschema:"Primary key of the record"`
	IncludeRelationships bool  `json:"include_relationships,omitempty" jsonschema:"Attach related records to the result"`
}

type SearchSpeciesParams struct {
	Nome                 string `json:"nome" jsonschema:"Substring of the scientific or popular name"`
	IncludeRelationships bool   `json:"include_relationships,omitempty" jsonschema:"Attach related records to each result"`
}

type CompleteTreeParams struct {
	SpeciesID int64 `json:"species_id" jsonschema:"EspecieID of the species"`
}

// NewServer creates the MCP tool surface over store.
func NewServer(store *database.Store) *Server {
	return &Server{
		store:  store,
		logger: store.DB().Logger().With(slog.String("component", "mcp")),
		limits: DefaultLimits(),
	}
}

// WithLimits overrides the paging limits applied to list tools.
func (s *Server) WithLimits(l Limits) *Server {
	s.limits = l
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.store.DB().Close()
}

// RegisterTools registers all MCP tools with the server
func (s *Server) RegisterTools(mcpServer *mcp.Server) {
	addEntityTools(mcpServer, newEntityTools(s, "especies", "species", s.store.Species))
	addEntityTools(mcpServer, newEntityTools(s, "biomas", "biomes", s.store.Biomes))
	addEntityTools(mcpServer, newEntityTools(s, "ocorrencias", "species occurrences in biomes", s.store.Occurrences))
	addEntityTools(mcpServer, newEntityTools(s, "caracteristicas", "physical characteristics", s.store.Characteristics))
	addEntityTools(mcpServer, newEntityTools(s, "curiosidades", "trivia entries", s.store.Trivia))
	addEntityTools(mcpServer, newEntityTools(s, "dados_arvore", "growth and wood data", s.store.GrowthData))

	mcp.AddTool(mcpServer,
		&mcp.Tool{
			Name:        "search_species",
			Description: "Find species whose scientific or popular name contains a substring",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, params SearchSpeciesParams) (*mcp.CallToolResult, any, error) {
			return s.handleSearchSpecies(ctx, params)
		},
	)

	mcp.AddTool(mcpServer,
		&mcp.Tool{
			Name:        "complete_tree",
			Description: "Read a species joined with its biomes, characteristics, trivia and growth data, one entry per combination",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, params CompleteTreeParams) (*mcp.CallToolResult, any, error) {
			return s.handleCompleteTree(ctx, params)
		},
	)

	s.logger.Debug("registered MCP tools", slog.Int("tables", 6))
}

// entityTools serves list_<name> and get_<name> for one table.
type entityTools[T any] struct {
	s     *Server
	name  string
	about string
	repo  *database.Repository[T]
}

func newEntityTools[T any](s *Server, name, about string, repo *database.Repository[T]) *entityTools[T] {
	return &entityTools[T]{s: s, name: name, about: about, repo: repo}
}

func addEntityTools[T any](mcpServer *mcp.Server, e *entityTools[T]) {
	mcp.AddTool(mcpServer,
		&mcp.Tool{
			Name:        "list_" + e.name,
			Description: fmt.Sprintf("List %s one page at a time, optionally filtered by column substrings", e.about),
		},
		func(ctx context.Context, req *mcp.CallToolRequest, params ListParams) (*mcp.CallToolResult, any, error) {
			return e.handleList(ctx, params)
		},
	)

	mcp.AddTool(mcpServer,
		&mcp.Tool{
			Name:        "get_" + e.name,
			Description: fmt.Sprintf("Get one of the %s by primary key", e.about),
		},
		func(ctx context.Context, req *mcp.CallToolRequest, params GetParams) (*mcp.CallToolResult, any, error) {
			return e.handleGet(ctx, params)
		},
	)
}

func (e *entityTools[T]) handleList(ctx context.Context, params ListParams) (*mcp.CallToolResult, any, error) {
	opts, err := e.s.limits.ListOptions(params)
	if err != nil {
		return nil, nil, err
	}
	ctx = logging.WithEntity(ctx, e.repo.Descriptor().Table())
	page, err := e.repo.List(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", e.name, err)
	}
	return textResult(page)
}

func (e *entityTools[T]) handleGet(ctx context.Context, params GetParams) (*mcp.CallToolResult, any, error) {
	if err := ValidateGetParams(params); err != nil {
		return nil, nil, err
	}
	ctx = logging.WithEntity(ctx, e.repo.Descriptor().Table())
	rec, err := e.repo.Get(ctx, params.ID, params.IncludeRelationships)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s %d not found", e.repo.Descriptor().Table(), params.ID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get %s: %w", e.name, err)
	}
	return textResult(rec)
}

func (s *Server) handleSearchSpecies(ctx context.Context, params SearchSpeciesParams) (*mcp.CallToolResult, any, error) {
	if err := ValidateSearchSpeciesParams(params); err != nil {
		return nil, nil, err
	}
	found, err := s.store.Species.FindContaining(ctx,
		[]string{"NomeCientifico", "NomePopular"}, params.Nome, "NomePopular", params.IncludeRelationships)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search species: %w", err)
	}
	return textResult(found)
}

func (s *Server) handleCompleteTree(ctx context.Context, params CompleteTreeParams) (*mcp.CallToolResult, any, error) {
	if err := ValidateCompleteTreeParams(params); err != nil {
		return nil, nil, err
	}
	entries, err := s.store.CompleteTree(ctx, params.SpeciesID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, fmt.Errorf("no tree found for species %d", params.SpeciesID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read complete tree: %w", err)
	}
	return textResult(map[string]any{"tree": entries})
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonData)},
		},
	}, nil, nil
}
