package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jamesprial/arvores-brasileiras-api/internal/logging"
	"github.com/jamesprial/arvores-brasileiras-api/internal/metrics"
)

// completeTreeQuery joins a species with every dependent table. The
// one-to-many branches multiply, so a species yields one row per
// combination of occurrence, characteristic, trivia and growth data.
const completeTreeQuery = `
	SELECT
		e.EspecieID, e.NomeCientifico, e.NomePopular, e.Familia, e.Descricao, e.DataCadastro,
		b.BiomaID, b.Nome, b.Descricao, b.Regiao,
		o.OcorrenciaID, o.Frequencia,
		c.CaracteristicaID, c.AlturaMedia, c.DiametroMedio, c.TipoFolha, c.Floracao,
		cu.CuriosidadeID, cu.Texto, cu.Fonte,
		d.DadosID, d.TempoDeVidaEstimado, d.CrescimentoAnual, d.RaizProfundidadeMedia, d.DensidadeMadeira
	FROM Especies e
	LEFT JOIN Ocorrencias o ON e.EspecieID = o.EspecieID
	LEFT JOIN Biomas b ON o.BiomaID = b.BiomaID
	LEFT JOIN Caracteristicas c ON e.EspecieID = c.EspecieID
	LEFT JOIN Curiosidades cu ON e.EspecieID = cu.EspecieID
	LEFT JOIN DadosArvore d ON e.EspecieID = d.EspecieID
	WHERE e.EspecieID = ?
	ORDER BY o.OcorrenciaID, c.CaracteristicaID, cu.CuriosidadeID, d.DadosID`

// CompleteTree returns the denormalized join of one species with all of its
// dependents, without deduplication. It returns ErrNotFound when the species
// does not exist.
func (st *Store) CompleteTree(ctx context.Context, especieID int64) (entries []TreeEntry, err error) {
	start := time.Now()
	defer func() {
		var failure error
		if err != nil && !errors.Is(err, ErrNotFound) {
			failure = err
			logging.LoggerWithContext(ctx, st.db.logger).Error("complete tree read failed",
				slog.Int64("id", especieID),
				slog.String("error", err.Error()),
			)
			err = fmt.Errorf("complete tree: %w", err)
		}
		metrics.ObserveQuery("complete_tree", "Especies", start, failure)
	}()

	err = st.db.WithConn(ctx, func(s *Session) error {
		rows, err := s.Query(ctx, completeTreeQuery, especieID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanTreeRow(rows)
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

func scanTreeRow(row RowScanner) (*TreeEntry, error) {
	var (
		e TreeEntry

		biomaID        *int64
		nomeBioma      *string
		descricaoBioma *string
		regiao         *string
		ocorrenciaID   *int64
		frequencia     *string

		c             TreeCharacteristic
		caracteristID *int64

		cu            TreeTrivia
		curiosidadeID *int64

		d       TreeGrowthData
		dadosID *int64
	)
	err := row.Scan(
		&e.EspecieID, &e.NomeCientifico, &e.NomePopular, &e.Familia, &e.DescricaoEspecie, &e.DataCadastro,
		&biomaID, &nomeBioma, &descricaoBioma, &regiao,
		&ocorrenciaID, &frequencia,
		&caracteristID, &c.AlturaMedia, &c.DiametroMedio, &c.TipoFolha, &c.Floracao,
		&curiosidadeID, &cu.Texto, &cu.Fonte,
		&dadosID, &d.TempoDeVidaEstimado, &d.CrescimentoAnual, &d.RaizProfundidadeMedia, &d.DensidadeMadeira,
	)
	if err != nil {
		return nil, err
	}

	if e.DataCadastro != nil {
		t := e.DataCadastro.UTC()
		e.DataCadastro = &t
	}
	if biomaID != nil {
		e.Biomas = &TreeBiome{
			BiomaID:        *biomaID,
			NomeBioma:      nomeBioma,
			DescricaoBioma: descricaoBioma,
			Regiao:         regiao,
			OcorrenciaID:   ocorrenciaID,
			Frequencia:     frequencia,
		}
	}
	if caracteristID != nil {
		c.CaracteristicaID = *caracteristID
		e.Caracteristicas = &c
	}
	if curiosidadeID != nil {
		cu.CuriosidadeID = *curiosidadeID
		e.Curiosidades = &cu
	}
	if dadosID != nil {
		d.DadosID = *dadosID
		e.DadosArvore = &d
	}
	return &e, nil
}
