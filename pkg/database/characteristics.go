package database

import (
	"context"
)

var characteristicFields = []Field{
	{Name: "EspecieID", Kind: KindInt},
	{Name: "AlturaMedia", Kind: KindFloat},
	{Name: "DiametroMedio", Kind: KindFloat},
	{Name: "TipoFolha", Kind: KindText},
	{Name: "Floracao", Kind: KindText},
}

// CharacteristicDescriptor maps the Caracteristicas table.
type CharacteristicDescriptor struct{}

func (CharacteristicDescriptor) Table() string      { return "Caracteristicas" }
func (CharacteristicDescriptor) PrimaryKey() string { return "CaracteristicaID" }
func (CharacteristicDescriptor) Fields() []Field    { return characteristicFields }

func (CharacteristicDescriptor) Scan(row RowScanner) (*Characteristic, error) {
	var c Characteristic
	if err := row.Scan(&c.CaracteristicaID, &c.EspecieID, &c.AlturaMedia, &c.DiametroMedio, &c.TipoFolha, &c.Floracao); err != nil {
		return nil, err
	}
	return &c, nil
}

func (CharacteristicDescriptor) ID(c *Characteristic) int64 { return c.CaracteristicaID }

func (CharacteristicDescriptor) ToStorage(in map[string]any, _ Op) (Fragment, error) {
	return buildFragment(characteristicFields, in)
}

func (CharacteristicDescriptor) Expand(ctx context.Context, s *Session, c *Characteristic) error {
	link, err := speciesLink(ctx, s, c.EspecieID)
	if err != nil {
		return err
	}
	c.SpeciesLink = link
	return nil
}
