package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContaining_OrdersByColumn(t *testing.T) {
	st := setupTestStore(t)
	mustCreateSpecies(t, st, "Paubrasilia echinata", "Pau-brasil")
	mustCreateSpecies(t, st, "Handroanthus albus", "Ipê-amarelo")
	mustCreateSpecies(t, st, "Handroanthus impetiginosus", "Ipê-roxo")

	found, err := st.Species.FindContaining(context.Background(),
		[]string{"NomeCientifico", "NomePopular"}, "Ip", "NomePopular", false)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, ptr("Ipê-amarelo"), found[0].NomePopular)
	assert.Equal(t, ptr("Ipê-roxo"), found[1].NomePopular)

	found, err = st.Species.FindContaining(context.Background(),
		[]string{"NomeCientifico", "NomePopular"}, "echinata", "NomePopular", false)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Paubrasilia echinata", found[0].NomeCientifico)
}

func TestFindContaining_UnknownColumn(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.Species.FindContaining(context.Background(), []string{"Nome; DROP TABLE Especies"}, "x", "", false)
	assert.Error(t, err)
}

func TestFindEqual(t *testing.T) {
	st := setupTestStore(t)
	fx := setupSpeciesFixture(t, st)

	occs, err := st.Occurrences.FindEqual(context.Background(), "BiomaID", fx.mata.BiomaID, false)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, fx.species.EspecieID, occs[0].EspecieID)

	occs, err = st.Occurrences.FindEqual(context.Background(), "EspecieID", fx.species.EspecieID+10, false)
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestFindInRange(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	sp := mustCreateSpecies(t, st, "Araucaria angustifolia", "Araucária")
	for _, altura := range []float64{5, 12, 25} {
		_, err := st.Characteristics.Create(ctx, map[string]any{"EspecieID": sp.EspecieID, "AlturaMedia": altura})
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		min, max *float64
		want     int
	}{
		{"open", nil, nil, 3},
		{"min only", ptr(10.0), nil, 2},
		{"max only", nil, ptr(12.0), 2},
		{"inclusive", ptr(12.0), ptr(12.0), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := st.Characteristics.FindInRange(ctx, "AlturaMedia", tt.min, tt.max, false)
			require.NoError(t, err)
			assert.Len(t, found, tt.want)
		})
	}

	_, err := st.Characteristics.FindInRange(ctx, "AlturaMedia", ptr(20.0), ptr(10.0), false)
	assert.True(t, IsInputError(err))
}
