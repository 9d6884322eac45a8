package database

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFragment_DropsUnknownKeys(t *testing.T) {
	frag, err := buildFragment(biomeFields, map[string]any{
		"Regiao":  "Centro-Oeste",
		"Nome":    "Cerrado",
		"BiomaID": json.Number("7"),
		"bogus":   "x",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Nome", "Regiao"}, frag.Columns)
	assert.Equal(t, []any{"Cerrado", "Centro-Oeste"}, frag.Values)
}

func TestBuildFragment_NullClearsColumn(t *testing.T) {
	frag, err := buildFragment(biomeFields, map[string]any{"Descricao": nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"Descricao"}, frag.Columns)
	assert.Equal(t, []any{nil}, frag.Values)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		in      any
		want    any
		wantErr bool
	}{
		{"text", KindText, "Ipê", "Ipê", false},
		{"text rejects number", KindText, json.Number("3"), nil, true},
		{"int from number", KindInt, json.Number("42"), int64(42), false},
		{"int from integral float text", KindInt, json.Number("3.0"), int64(3), false},
		{"int rejects fraction", KindInt, json.Number("3.5"), nil, true},
		{"int from string", KindInt, " 12 ", int64(12), false},
		{"int from float64", KindInt, float64(8), int64(8), false},
		{"int rejects bool", KindInt, true, nil, true},
		{"float from number", KindFloat, json.Number("1.25"), 1.25, false},
		{"float from string", KindFloat, "0.96", 0.96, false},
		{"float zero", KindFloat, json.Number("0"), 0.0, false},
		{"float rejects text", KindFloat, "alto", nil, true},
		{"time date only", KindTime, "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"time rfc3339", KindTime, "2024-03-01T10:30:00-03:00", time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), false},
		{"time rejects garbage", KindTime, "ontem", nil, true},
		{"null", KindInt, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(Field{Name: "F", Kind: tt.kind}, tt.in)
			if tt.wantErr {
				assert.True(t, IsInputError(err), "expected input error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpeciesToStorage_Timestamp(t *testing.T) {
	fixed := time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC)
	d := SpeciesDescriptor{Now: func() time.Time { return fixed }}

	frag, err := d.ToStorage(map[string]any{"NomeCientifico": "Paubrasilia echinata"}, OpCreate)
	require.NoError(t, err)
	assert.Equal(t, []string{"NomeCientifico", "DataCadastro"}, frag.Columns)
	assert.Equal(t, fixed, frag.Values[1])

	frag, err = d.ToStorage(map[string]any{"NomePopular": "Pau-brasil"}, OpUpdate)
	require.NoError(t, err)
	assert.Equal(t, []string{"NomePopular"}, frag.Columns)

	frag, err = d.ToStorage(map[string]any{"DataCadastro": "2020-01-02"}, OpCreate)
	require.NoError(t, err)
	assert.Equal(t, []any{time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)}, frag.Values)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ata%", containsPattern("ata"))
	assert.Equal(t, `%50\%\_x\\%`, containsPattern(`50%_x\`))
}

func TestCoerce_ErrorNamesKind(t *testing.T) {
	tests := []struct {
		kind Kind
		in   any
		want string
	}{
		{KindText, json.Number("3"), "F: expected text"},
		{KindInt, "doze", "F: expected integer"},
		{KindFloat, true, "F: expected number"},
		{KindTime, json.Number("2024"), "F: expected timestamp string"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			_, err := coerce(Field{Name: "F", Kind: tt.kind}, tt.in)
			assert.EqualError(t, err, tt.want)
		})
	}
}
