package database

import (
	"context"
)

var occurrenceFields = []Field{
	{Name: "EspecieID", Kind: KindInt},
	{Name: "BiomaID", Kind: KindInt},
	{Name: "Frequencia", Kind: KindText},
}

// OccurrenceDescriptor maps the Ocorrencias table, which links a species to a biome.
type OccurrenceDescriptor struct{}

func (OccurrenceDescriptor) Table() string      { return "Ocorrencias" }
func (OccurrenceDescriptor) PrimaryKey() string { return "OcorrenciaID" }
func (OccurrenceDescriptor) Fields() []Field    { return occurrenceFields }

func (OccurrenceDescriptor) Scan(row RowScanner) (*Occurrence, error) {
	var o Occurrence
	if err := row.Scan(&o.OcorrenciaID, &o.EspecieID, &o.BiomaID, &o.Frequencia); err != nil {
		return nil, err
	}
	return &o, nil
}

func (OccurrenceDescriptor) ID(o *Occurrence) int64 { return o.OcorrenciaID }

func (OccurrenceDescriptor) ToStorage(in map[string]any, _ Op) (Fragment, error) {
	return buildFragment(occurrenceFields, in)
}

func (OccurrenceDescriptor) Expand(ctx context.Context, s *Session, o *Occurrence) error {
	especie, err := fetchSpeciesRef(ctx, s, o.EspecieID)
	if err != nil {
		return err
	}
	bioma, err := fetchBiomeRef(ctx, s, o.BiomaID)
	if err != nil {
		return err
	}
	o.OccurrenceRelations = &OccurrenceRelations{Especie: especie, Bioma: bioma}
	return nil
}
