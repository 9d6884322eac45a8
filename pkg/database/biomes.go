package database

import (
	"context"
)

var biomeFields = []Field{
	{Name: "Nome", Kind: KindText},
	{Name: "Descricao", Kind: KindText},
	{Name: "Regiao", Kind: KindText},
}

// BiomeDescriptor maps the Biomas table.
type BiomeDescriptor struct{}

func (BiomeDescriptor) Table() string      { return "Biomas" }
func (BiomeDescriptor) PrimaryKey() string { return "BiomaID" }
func (BiomeDescriptor) Fields() []Field    { return biomeFields }

func (BiomeDescriptor) Scan(row RowScanner) (*Biome, error) {
	var b Biome
	if err := row.Scan(&b.BiomaID, &b.Nome, &b.Descricao, &b.Regiao); err != nil {
		return nil, err
	}
	return &b, nil
}

func (BiomeDescriptor) ID(b *Biome) int64 { return b.BiomaID }

func (BiomeDescriptor) ToStorage(in map[string]any, _ Op) (Fragment, error) {
	return buildFragment(biomeFields, in)
}

func (BiomeDescriptor) Expand(ctx context.Context, s *Session, b *Biome) error {
	rows, err := s.Query(ctx, `
		SELECT o.OcorrenciaID, o.EspecieID, o.BiomaID, o.Frequencia,
		       e.EspecieID, e.NomeCientifico, e.NomePopular, e.Familia
		FROM Ocorrencias o
		LEFT JOIN Especies e ON o.EspecieID = e.EspecieID
		WHERE o.BiomaID = ?
		ORDER BY o.OcorrenciaID`, b.BiomaID)
	if err != nil {
		return err
	}
	defer rows.Close()

	occurrences := []BiomeOccurrence{}
	for rows.Next() {
		var (
			occ            BiomeOccurrence
			especieID      *int64
			nomeCientifico *string
			nomePopular    *string
			familia        *string
		)
		if err := rows.Scan(&occ.OcorrenciaID, &occ.EspecieID, &occ.BiomaID, &occ.Frequencia,
			&especieID, &nomeCientifico, &nomePopular, &familia); err != nil {
			return err
		}
		if especieID != nil {
			occ.Especie = &SpeciesRef{
				EspecieID:      *especieID,
				NomeCientifico: deref(nomeCientifico),
				NomePopular:    nomePopular,
				Familia:        familia,
			}
		}
		occurrences = append(occurrences, occ)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	b.BiomeRelations = &BiomeRelations{Ocorrencias: occurrences}
	return nil
}
