package database

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// testDSN names a private in-memory database for the running test.
func testDSN(tb testing.TB) string {
	return "file:" + unsafeName.ReplaceAllString(tb.Name(), "_") + "?mode=memory&cache=shared"
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(tb testing.TB) *DB {
	tb.Helper()
	db, err := Open(context.Background(), "sqlite3", testDSN(tb), quietLogger(), 0)
	require.NoError(tb, err)
	tb.Cleanup(func() { db.Close() })
	return db
}

func setupTestStore(tb testing.TB) *Store {
	tb.Helper()
	return NewStore(setupTestDB(tb))
}

func ptr[T any](v T) *T { return &v }

func mustCreateSpecies(t *testing.T, st *Store, nomeCientifico, nomePopular string) *Species {
	t.Helper()
	sp, err := st.Species.Create(context.Background(), map[string]any{
		"NomeCientifico": nomeCientifico,
		"NomePopular":    nomePopular,
		"Familia":        "Fabaceae",
	})
	require.NoError(t, err)
	return sp
}

func mustCreateBiome(t *testing.T, st *Store, nome, regiao string) *Biome {
	t.Helper()
	b, err := st.Biomes.Create(context.Background(), map[string]any{"Nome": nome, "Regiao": regiao})
	require.NoError(t, err)
	return b
}

func mustCreateOccurrence(t *testing.T, st *Store, especieID, biomaID int64, frequencia string) *Occurrence {
	t.Helper()
	o, err := st.Occurrences.Create(context.Background(), map[string]any{
		"EspecieID":  especieID,
		"BiomaID":    biomaID,
		"Frequencia": frequencia,
	})
	require.NoError(t, err)
	return o
}
