package database

import (
	"context"
)

var growthDataFields = []Field{
	{Name: "EspecieID", Kind: KindInt},
	{Name: "TempoDeVidaEstimado", Kind: KindInt},
	{Name: "CrescimentoAnual", Kind: KindFloat},
	{Name: "RaizProfundidadeMedia", Kind: KindFloat},
	{Name: "DensidadeMadeira", Kind: KindFloat},
}

// GrowthDataDescriptor maps the DadosArvore table: lifespan, growth rate,
// root depth and wood density of a species.
type GrowthDataDescriptor struct{}

func (GrowthDataDescriptor) Table() string      { return "DadosArvore" }
func (GrowthDataDescriptor) PrimaryKey() string { return "DadosID" }
func (GrowthDataDescriptor) Fields() []Field    { return growthDataFields }

func (GrowthDataDescriptor) Scan(row RowScanner) (*GrowthData, error) {
	var g GrowthData
	if err := row.Scan(&g.DadosID, &g.EspecieID, &g.TempoDeVidaEstimado,
		&g.CrescimentoAnual, &g.RaizProfundidadeMedia, &g.DensidadeMadeira); err != nil {
		return nil, err
	}
	return &g, nil
}

func (GrowthDataDescriptor) ID(g *GrowthData) int64 { return g.DadosID }

func (GrowthDataDescriptor) ToStorage(in map[string]any, _ Op) (Fragment, error) {
	return buildFragment(growthDataFields, in)
}

func (GrowthDataDescriptor) Expand(ctx context.Context, s *Session, g *GrowthData) error {
	link, err := speciesLink(ctx, s, g.EspecieID)
	if err != nil {
		return err
	}
	g.SpeciesLink = link
	return nil
}
