package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// queryAll selects every row of d matching where, ordered by orderBy (the
// primary key when empty).
func queryAll[T any](ctx context.Context, s *Session, d Descriptor[T], where, orderBy string, args ...any) ([]T, error) {
	if orderBy == "" {
		orderBy = d.PrimaryKey()
	}
	query := fmt.Sprintf("SELECT %s FROM %s", selectList(d), d.Table())
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + orderBy

	return collect(ctx, s, d, query, args...)
}

func fetchSpeciesRef(ctx context.Context, s *Session, id int64) (*SpeciesRef, error) {
	var ref SpeciesRef
	err := s.QueryRow(ctx,
		"SELECT EspecieID, NomeCientifico, NomePopular, Familia FROM Especies WHERE EspecieID = ?", id,
	).Scan(&ref.EspecieID, &ref.NomeCientifico, &ref.NomePopular, &ref.Familia)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func fetchBiomeRef(ctx context.Context, s *Session, id int64) (*BiomeRef, error) {
	var ref BiomeRef
	err := s.QueryRow(ctx,
		"SELECT BiomaID, Nome, Descricao, Regiao FROM Biomas WHERE BiomaID = ?", id,
	).Scan(&ref.BiomaID, &ref.Nome, &ref.Descricao, &ref.Regiao)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// speciesLink resolves the reduced species for tables keyed on EspecieID.
func speciesLink(ctx context.Context, s *Session, especieID int64) (*SpeciesLink, error) {
	ref, err := fetchSpeciesRef(ctx, s, especieID)
	if err != nil {
		return nil, err
	}
	return &SpeciesLink{Especie: ref}, nil
}
