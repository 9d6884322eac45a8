package server

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesprial/arvores-brasileiras-api/pkg/database"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// newTestServer returns a server over a private in-memory database holding
// the demo dataset.
func newTestServer(t *testing.T) (*Server, *database.Store) {
	t.Helper()
	dsn := "file:server_" + unsafeName.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"
	db, err := database.Open(context.Background(), "sqlite3", dsn, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := database.NewStore(db)
	_, err = st.Seed(context.Background())
	require.NoError(t, err)
	return NewServer(st), st
}

func jsonText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestServer_ListSpecies(t *testing.T) {
	s, st := newTestServer(t)
	tools := newEntityTools(s, "especies", "species", st.Species)

	cases := []struct {
		name      string
		params    ListParams
		wantLen   int
		wantTotal int64
		wantPer   int
	}{
		{name: "defaults", params: ListParams{}, wantLen: 3, wantTotal: 3, wantPer: DefaultPerPage},
		{name: "second page", params: ListParams{Page: 2, PerPage: 2}, wantLen: 1, wantTotal: 3, wantPer: 2},
		{name: "filtered", params: ListParams{Filters: map[string]string{"Familia": "aceae", "NomePopular": "Pau"}}, wantLen: 1, wantTotal: 1, wantPer: DefaultPerPage},
		{name: "unknown filter ignored", params: ListParams{Filters: map[string]string{"Nope": "x"}}, wantLen: 3, wantTotal: 3, wantPer: DefaultPerPage},
		{name: "per_page capped", params: ListParams{PerPage: 5000}, wantLen: 3, wantTotal: 3, wantPer: MaxPerPage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _, err := tools.handleList(context.Background(), tc.params)
			require.NoError(t, err)
			var page database.Page[database.Species]
			require.NoError(t, json.Unmarshal([]byte(jsonText(t, res)), &page))
			assert.Len(t, page.Data, tc.wantLen)
			assert.Equal(t, tc.wantTotal, page.Pagination.Total)
			assert.Equal(t, tc.wantPer, page.Pagination.PerPage)
		})
	}
}

func TestServer_ListRejectsBadInput(t *testing.T) {
	s, st := newTestServer(t)
	tools := newEntityTools(s, "biomas", "biomes", st.Biomes)

	for name, params := range map[string]ListParams{
		"negative page":     {Page: -1},
		"negative per_page": {PerPage: -5},
		"control character": {Filters: map[string]string{"Nome": "a\x00b"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := tools.handleList(context.Background(), params)
			assert.Error(t, err)
		})
	}
}

func TestServer_ListWithRelationships(t *testing.T) {
	s, st := newTestServer(t)
	tools := newEntityTools(s, "biomas", "biomes", st.Biomes)

	res, _, err := tools.handleList(context.Background(), ListParams{IncludeRelationships: true})
	require.NoError(t, err)
	var page database.Page[database.Biome]
	require.NoError(t, json.Unmarshal([]byte(jsonText(t, res)), &page))
	require.Len(t, page.Data, 2)

	occurrences := 0
	for _, b := range page.Data {
		require.NotNil(t, b.BiomeRelations)
		occurrences += len(b.Ocorrencias)
	}
	assert.Equal(t, 4, occurrences)
}

func TestServer_Get(t *testing.T) {
	s, st := newTestServer(t)
	tools := newEntityTools(s, "especies", "species", st.Species)
	ctx := context.Background()

	res, _, err := tools.handleGet(ctx, GetParams{ID: 1, IncludeRelationships: true})
	require.NoError(t, err)
	var sp database.Species
	require.NoError(t, json.Unmarshal([]byte(jsonText(t, res)), &sp))
	assert.Equal(t, "Handroanthus albus", sp.NomeCientifico)
	require.NotNil(t, sp.SpeciesRelations)
	assert.Len(t, sp.Ocorrencias, 2)
	assert.Len(t, sp.Caracteristicas, 1)
	assert.Len(t, sp.Curiosidades, 1)
	assert.Len(t, sp.DadosArvore, 1)

	res, _, err = tools.handleGet(ctx, GetParams{ID: 1})
	require.NoError(t, err)
	var plain map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonText(t, res)), &plain))
	assert.NotContains(t, plain, "ocorrencias")

	_, _, err = tools.handleGet(ctx, GetParams{ID: 999})
	assert.ErrorContains(t, err, "not found")

	_, _, err = tools.handleGet(ctx, GetParams{ID: 0})
	assert.Error(t, err)
}

func TestServer_SearchSpecies(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		name    string
		nome    string
		wantLen int
		wantErr bool
	}{
		{name: "popular name", nome: "Ipê", wantLen: 1},
		{name: "scientific name", nome: "Araucaria", wantLen: 1},
		{name: "shared substring", nome: "a", wantLen: 3},
		{name: "case sensitive", nome: "ipê", wantLen: 0},
		{name: "empty", nome: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _, err := s.handleSearchSpecies(context.Background(), SearchSpeciesParams{Nome: tc.nome})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var found []database.Species
			require.NoError(t, json.Unmarshal([]byte(jsonText(t, res)), &found))
			assert.Len(t, found, tc.wantLen)
		})
	}
}

func TestServer_CompleteTree(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleCompleteTree(ctx, CompleteTreeParams{SpeciesID: 1})
	require.NoError(t, err)
	var out struct {
		Tree []database.TreeEntry `json:"tree"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonText(t, res)), &out))
	require.Len(t, out.Tree, 2)
	for _, entry := range out.Tree {
		require.NotNil(t, entry.Biomas)
		require.NotNil(t, entry.Caracteristicas)
		assert.Equal(t, "Composta", *entry.Caracteristicas.TipoFolha)
	}
	assert.NotEqual(t, out.Tree[0].Biomas.BiomaID, out.Tree[1].Biomas.BiomaID)

	_, _, err = s.handleCompleteTree(ctx, CompleteTreeParams{SpeciesID: 999})
	assert.ErrorContains(t, err, "no tree found")

	_, _, err = s.handleCompleteTree(ctx, CompleteTreeParams{})
	assert.Error(t, err)
}

func TestLimits_ListOptions(t *testing.T) {
	l := Limits{DefaultPerPage: 10, MaxPerPage: 20}

	opts, err := l.ListOptions(ListParams{})
	require.NoError(t, err)
	assert.Equal(t, database.ListOptions{Page: 1, PerPage: 10}, opts)

	opts, err = l.ListOptions(ListParams{Page: 3, PerPage: 50, IncludeRelationships: true})
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 20, opts.PerPage)
	assert.True(t, opts.Expand)

	filters := map[string]string{}
	for i := 0; i <= MaxFilters; i++ {
		filters[string(rune('a'+i))] = "x"
	}
	_, err = l.ListOptions(ListParams{Filters: filters})
	assert.Error(t, err)
}

func TestServer_Shutdown_ClosesDB(t *testing.T) {
	s, st := newTestServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
	_, err := st.Species.Count(context.Background(), nil)
	assert.Error(t, err)
}

func TestServer_RegisterTools_Smoke(t *testing.T) {
	s, _ := newTestServer(t)
	m := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	s.RegisterTools(m)
}
