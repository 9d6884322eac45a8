package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteTree_FanOut(t *testing.T) {
	st := setupTestStore(t)
	fx := setupSpeciesFixture(t, st)

	entries, err := st.CompleteTree(context.Background(), fx.species.EspecieID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, fx.species.EspecieID, e.EspecieID)
		assert.Equal(t, "Handroanthus albus", e.NomeCientifico)
		require.NotNil(t, e.Caracteristicas)
		assert.Equal(t, ptr("Composta"), e.Caracteristicas.TipoFolha)
		assert.Nil(t, e.Curiosidades)
		assert.Nil(t, e.DadosArvore)
		require.NotNil(t, e.Biomas)
	}
	assert.Equal(t, entries[0].Caracteristicas, entries[1].Caracteristicas)
	assert.Equal(t, fx.mata.BiomaID, entries[0].Biomas.BiomaID)
	assert.Equal(t, fx.cerrado.BiomaID, entries[1].Biomas.BiomaID)
	assert.Equal(t, ptr("Rara"), entries[1].Biomas.Frequencia)
}

func TestCompleteTree_CrossProduct(t *testing.T) {
	st := setupTestStore(t)
	fx := setupSpeciesFixture(t, st)
	ctx := context.Background()
	for _, texto := range []string{"primeira", "segunda"} {
		_, err := st.Trivia.Create(ctx, map[string]any{"EspecieID": fx.species.EspecieID, "Texto": texto})
		require.NoError(t, err)
	}

	entries, err := st.CompleteTree(ctx, fx.species.EspecieID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestCompleteTree_NoRelations(t *testing.T) {
	st := setupTestStore(t)
	sp := mustCreateSpecies(t, st, "Araucaria angustifolia", "Araucária")

	entries, err := st.CompleteTree(context.Background(), sp.EspecieID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Nil(t, e.Biomas)
	assert.Nil(t, e.Caracteristicas)
	assert.Nil(t, e.Curiosidades)
	assert.Nil(t, e.DadosArvore)
	assert.NotNil(t, e.DataCadastro)
}

func TestCompleteTree_NotFound(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.CompleteTree(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
