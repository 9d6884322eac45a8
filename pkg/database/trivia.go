package database

import (
	"context"
)

var triviaFields = []Field{
	{Name: "EspecieID", Kind: KindInt},
	{Name: "Texto", Kind: KindText},
	{Name: "Fonte", Kind: KindText},
}

// TriviaDescriptor maps the Curiosidades table.
type TriviaDescriptor struct{}

func (TriviaDescriptor) Table() string      { return "Curiosidades" }
func (TriviaDescriptor) PrimaryKey() string { return "CuriosidadeID" }
func (TriviaDescriptor) Fields() []Field    { return triviaFields }

func (TriviaDescriptor) Scan(row RowScanner) (*Trivia, error) {
	var t Trivia
	if err := row.Scan(&t.CuriosidadeID, &t.EspecieID, &t.Texto, &t.Fonte); err != nil {
		return nil, err
	}
	return &t, nil
}

func (TriviaDescriptor) ID(t *Trivia) int64 { return t.CuriosidadeID }

func (TriviaDescriptor) ToStorage(in map[string]any, _ Op) (Fragment, error) {
	return buildFragment(triviaFields, in)
}

func (TriviaDescriptor) Expand(ctx context.Context, s *Session, t *Trivia) error {
	link, err := speciesLink(ctx, s, t.EspecieID)
	if err != nil {
		return err
	}
	t.SpeciesLink = link
	return nil
}
