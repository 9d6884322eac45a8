package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	seeded, err := st.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	counts := map[string]func(context.Context, map[string]string) (int64, error){
		"species":     st.Species.Count,
		"biomes":      st.Biomes.Count,
		"occurrences": st.Occurrences.Count,
		"trivia":      st.Trivia.Count,
	}
	want := map[string]int64{"species": 3, "biomes": 2, "occurrences": 4, "trivia": 3}
	for name, count := range counts {
		n, err := count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, want[name], n, name)
	}

	seeded, err = st.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	ipe, err := st.Species.FindContaining(ctx, []string{"NomePopular"}, "Ipê", "", false)
	require.NoError(t, err)
	require.Len(t, ipe, 1)
	entries, err := st.CompleteTree(ctx, ipe[0].EspecieID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
