package database

import (
	"context"
	"time"
)

var speciesFields = []Field{
	{Name: "NomeCientifico", Kind: KindText},
	{Name: "NomePopular", Kind: KindText},
	{Name: "Familia", Kind: KindText},
	{Name: "Descricao", Kind: KindText},
	{Name: "DataCadastro", Kind: KindTime},
}

// SpeciesDescriptor maps the Especies table.
type SpeciesDescriptor struct {
	// Now stamps DataCadastro on create when the caller omits it.
	Now func() time.Time
}

func (SpeciesDescriptor) Table() string      { return "Especies" }
func (SpeciesDescriptor) PrimaryKey() string { return "EspecieID" }
func (SpeciesDescriptor) Fields() []Field    { return speciesFields }

func (SpeciesDescriptor) Scan(row RowScanner) (*Species, error) {
	var sp Species
	if err := row.Scan(&sp.EspecieID, &sp.NomeCientifico, &sp.NomePopular, &sp.Familia, &sp.Descricao, &sp.DataCadastro); err != nil {
		return nil, err
	}
	if sp.DataCadastro != nil {
		t := sp.DataCadastro.UTC()
		sp.DataCadastro = &t
	}
	return &sp, nil
}

func (SpeciesDescriptor) ID(sp *Species) int64 { return sp.EspecieID }

func (d SpeciesDescriptor) ToStorage(in map[string]any, op Op) (Fragment, error) {
	frag, err := buildFragment(speciesFields, in)
	if err != nil {
		return Fragment{}, err
	}
	if op == OpCreate && !frag.has("DataCadastro") {
		now := time.Now
		if d.Now != nil {
			now = d.Now
		}
		frag.add("DataCadastro", now().UTC())
	}
	return frag, nil
}

func (SpeciesDescriptor) Expand(ctx context.Context, s *Session, sp *Species) error {
	occurrences, err := speciesOccurrences(ctx, s, sp.EspecieID)
	if err != nil {
		return err
	}
	characteristics, err := queryAll[Characteristic](ctx, s, CharacteristicDescriptor{}, "EspecieID = ?", "", sp.EspecieID)
	if err != nil {
		return err
	}
	trivia, err := queryAll[Trivia](ctx, s, TriviaDescriptor{}, "EspecieID = ?", "", sp.EspecieID)
	if err != nil {
		return err
	}
	growth, err := queryAll[GrowthData](ctx, s, GrowthDataDescriptor{}, "EspecieID = ?", "", sp.EspecieID)
	if err != nil {
		return err
	}

	sp.SpeciesRelations = &SpeciesRelations{
		Ocorrencias:     occurrences,
		Caracteristicas: characteristics,
		Curiosidades:    trivia,
		DadosArvore:     growth,
	}
	return nil
}

func speciesOccurrences(ctx context.Context, s *Session, especieID int64) ([]SpeciesOccurrence, error) {
	rows, err := s.Query(ctx, `
		SELECT o.OcorrenciaID, o.EspecieID, o.BiomaID, o.Frequencia,
		       b.BiomaID, b.Nome, b.Descricao, b.Regiao
		FROM Ocorrencias o
		LEFT JOIN Biomas b ON o.BiomaID = b.BiomaID
		WHERE o.EspecieID = ?
		ORDER BY o.OcorrenciaID`, especieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SpeciesOccurrence{}
	for rows.Next() {
		var (
			occ       SpeciesOccurrence
			biomaID   *int64
			nome      *string
			descricao *string
			regiao    *string
		)
		if err := rows.Scan(&occ.OcorrenciaID, &occ.EspecieID, &occ.BiomaID, &occ.Frequencia,
			&biomaID, &nome, &descricao, &regiao); err != nil {
			return nil, err
		}
		if biomaID != nil {
			occ.Bioma = &BiomeRef{BiomaID: *biomaID, Nome: deref(nome), Descricao: descricao, Regiao: regiao}
		}
		out = append(out, occ)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
