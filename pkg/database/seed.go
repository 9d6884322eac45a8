package database

import (
	"context"
	"fmt"
	"log/slog"
)

type seedSpecies struct {
	nomeCientifico, nomePopular, familia, descricao string
	biomas                                          []string
	frequencia                                      string
	alturaMedia, diametroMedio                      float64
	tipoFolha, floracao                             string
	curiosidade, fonte                              string
	tempoDeVida                                     int64
	crescimento, raiz, densidade                    float64
}

var seedBiomes = []struct{ nome, descricao, regiao string }{
	{"Mata Atlântica", "Floresta tropical úmida da costa brasileira", "Litoral leste"},
	{"Cerrado", "Savana tropical com árvores de troncos retorcidos", "Centro-Oeste"},
}

var seedData = []seedSpecies{
	{
		nomeCientifico: "Handroanthus albus", nomePopular: "Ipê-amarelo", familia: "Bignoniaceae",
		descricao: "Árvore símbolo do Brasil, de floração amarela intensa",
		biomas:    []string{"Mata Atlântica", "Cerrado"}, frequencia: "Comum",
		alturaMedia: 12, diametroMedio: 0.6, tipoFolha: "Composta", floracao: "Agosto a setembro",
		curiosidade: "Perde todas as folhas antes de florescer", fonte: "Lorenzi, Árvores Brasileiras",
		tempoDeVida: 100, crescimento: 0.8, raiz: 2.5, densidade: 0.96,
	},
	{
		nomeCientifico: "Paubrasilia echinata", nomePopular: "Pau-brasil", familia: "Fabaceae",
		descricao: "Espécie que deu nome ao país, hoje ameaçada de extinção",
		biomas:    []string{"Mata Atlântica"}, frequencia: "Rara",
		alturaMedia: 10, diametroMedio: 0.5, tipoFolha: "Bipinada", floracao: "Setembro a outubro",
		curiosidade: "Sua madeira é usada na fabricação de arcos de violino", fonte: "Lorenzi, Árvores Brasileiras",
		tempoDeVida: 200, crescimento: 0.4, raiz: 3, densidade: 1.1,
	},
	{
		nomeCientifico: "Araucaria angustifolia", nomePopular: "Araucária", familia: "Araucariaceae",
		descricao: "Conífera das regiões altas do sul, produtora do pinhão",
		biomas:    []string{"Mata Atlântica"}, frequencia: "Moderada",
		alturaMedia: 25, diametroMedio: 1.2, tipoFolha: "Acicular", floracao: "Setembro a outubro",
		curiosidade: "O pinhão é alimento da gralha-azul, que dispersa suas sementes", fonte: "Embrapa Florestas",
		tempoDeVida: 500, crescimento: 0.5, raiz: 4, densidade: 0.55,
	},
}

// Seed inserts a small demo dataset when the species table is empty. It
// reports whether anything was inserted.
func (st *Store) Seed(ctx context.Context) (bool, error) {
	n, err := st.Species.Count(ctx, nil)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	err = st.db.WithTx(ctx, func(s *Session) error {
		biomeIDs := make(map[string]int64, len(seedBiomes))
		for _, b := range seedBiomes {
			id, err := st.insert(ctx, s, "Biomas", "BiomaID", map[string]any{
				"Nome": b.nome, "Descricao": b.descricao, "Regiao": b.regiao,
			}, biomeFields)
			if err != nil {
				return err
			}
			biomeIDs[b.nome] = id
		}

		for _, sp := range seedData {
			frag, err := SpeciesDescriptor{}.ToStorage(map[string]any{
				"NomeCientifico": sp.nomeCientifico,
				"NomePopular":    sp.nomePopular,
				"Familia":        sp.familia,
				"Descricao":      sp.descricao,
			}, OpCreate)
			if err != nil {
				return err
			}
			especieID, err := st.db.dialect.InsertReturningID(ctx, s, "Especies", "EspecieID", frag)
			if err != nil {
				return fmt.Errorf("seed species %s: %w", sp.nomeCientifico, err)
			}

			for _, nome := range sp.biomas {
				if _, err := st.insert(ctx, s, "Ocorrencias", "OcorrenciaID", map[string]any{
					"EspecieID": especieID, "BiomaID": biomeIDs[nome], "Frequencia": sp.frequencia,
				}, occurrenceFields); err != nil {
					return err
				}
			}
			if _, err := st.insert(ctx, s, "Caracteristicas", "CaracteristicaID", map[string]any{
				"EspecieID": especieID, "AlturaMedia": sp.alturaMedia, "DiametroMedio": sp.diametroMedio,
				"TipoFolha": sp.tipoFolha, "Floracao": sp.floracao,
			}, characteristicFields); err != nil {
				return err
			}
			if _, err := st.insert(ctx, s, "Curiosidades", "CuriosidadeID", map[string]any{
				"EspecieID": especieID, "Texto": sp.curiosidade, "Fonte": sp.fonte,
			}, triviaFields); err != nil {
				return err
			}
			if _, err := st.insert(ctx, s, "DadosArvore", "DadosID", map[string]any{
				"EspecieID": especieID, "TempoDeVidaEstimado": sp.tempoDeVida, "CrescimentoAnual": sp.crescimento,
				"RaizProfundidadeMedia": sp.raiz, "DensidadeMadeira": sp.densidade,
			}, growthDataFields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed database: %w", err)
	}

	st.db.logger.Info("seeded demo dataset",
		slog.Int("species", len(seedData)),
		slog.Int("biomes", len(seedBiomes)),
	)
	return true, nil
}

func (st *Store) insert(ctx context.Context, s *Session, table, pk string, in map[string]any, fields []Field) (int64, error) {
	frag, err := buildFragment(fields, in)
	if err != nil {
		return 0, err
	}
	id, err := st.db.dialect.InsertReturningID(ctx, s, table, pk, frag)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", table, err)
	}
	return id, nil
}
