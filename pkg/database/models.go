package database

import (
	"time"
)

// Nullable columns are pointers: nil is SQL NULL, a zero value is a stored zero.

type Species struct {
	EspecieID      int64      `json:"EspecieID"`
	NomeCientifico string     `json:"NomeCientifico"`
	NomePopular    *string    `json:"NomePopular"`
	Familia        *string    `json:"Familia"`
	Descricao      *string    `json:"Descricao"`
	DataCadastro   *time.Time `json:"DataCadastro"`
	*SpeciesRelations
}

// SpeciesRelations is attached by expansion; when nil its keys are omitted.
type SpeciesRelations struct {
	Ocorrencias     []SpeciesOccurrence `json:"ocorrencias"`
	Caracteristicas []Characteristic    `json:"caracteristicas"`
	Curiosidades    []Trivia            `json:"curiosidades"`
	DadosArvore     []GrowthData        `json:"dados_arvore"`
}

type Biome struct {
	BiomaID   int64   `json:"BiomaID"`
	Nome      string  `json:"Nome"`
	Descricao *string `json:"Descricao"`
	Regiao    *string `json:"Regiao"`
	*BiomeRelations
}

type BiomeRelations struct {
	Ocorrencias []BiomeOccurrence `json:"ocorrencias"`
}

type Occurrence struct {
	OcorrenciaID int64   `json:"OcorrenciaID"`
	EspecieID    int64   `json:"EspecieID"`
	BiomaID      int64   `json:"BiomaID"`
	Frequencia   *string `json:"Frequencia"`
	*OccurrenceRelations
}

type OccurrenceRelations struct {
	Especie *SpeciesRef `json:"especie"`
	Bioma   *BiomeRef   `json:"bioma"`
}

// SpeciesOccurrence is an occurrence listed under a species, carrying its biome.
type SpeciesOccurrence struct {
	OcorrenciaID int64     `json:"OcorrenciaID"`
	EspecieID    int64     `json:"EspecieID"`
	BiomaID      int64     `json:"BiomaID"`
	Frequencia   *string   `json:"Frequencia"`
	Bioma        *BiomeRef `json:"Bioma"`
}

// BiomeOccurrence is an occurrence listed under a biome, carrying its species.
type BiomeOccurrence struct {
	OcorrenciaID int64       `json:"OcorrenciaID"`
	EspecieID    int64       `json:"EspecieID"`
	BiomaID      int64       `json:"BiomaID"`
	Frequencia   *string     `json:"Frequencia"`
	Especie      *SpeciesRef `json:"Especie"`
}

type Characteristic struct {
	CaracteristicaID int64    `json:"CaracteristicaID"`
	EspecieID        int64    `json:"EspecieID"`
	AlturaMedia      *float64 `json:"AlturaMedia"`
	DiametroMedio    *float64 `json:"DiametroMedio"`
	TipoFolha        *string  `json:"TipoFolha"`
	Floracao         *string  `json:"Floracao"`
	*SpeciesLink
}

// Trivia is a row of Curiosidades.
type Trivia struct {
	CuriosidadeID int64   `json:"CuriosidadeID"`
	EspecieID     int64   `json:"EspecieID"`
	Texto         string  `json:"Texto"`
	Fonte         *string `json:"Fonte"`
	*SpeciesLink
}

// GrowthData is a row of DadosArvore.
type GrowthData struct {
	DadosID               int64    `json:"DadosID"`
	EspecieID             int64    `json:"EspecieID"`
	TempoDeVidaEstimado   *int64   `json:"TempoDeVidaEstimado"`
	CrescimentoAnual      *float64 `json:"CrescimentoAnual"`
	RaizProfundidadeMedia *float64 `json:"RaizProfundidadeMedia"`
	DensidadeMadeira      *float64 `json:"DensidadeMadeira"`
	*SpeciesLink
}

// SpeciesLink is the expansion shared by every table keyed on a species.
type SpeciesLink struct {
	Especie *SpeciesRef `json:"especie"`
}

// SpeciesRef is the reduced projection of a species used inside expansions.
type SpeciesRef struct {
	EspecieID      int64   `json:"EspecieID"`
	NomeCientifico string  `json:"NomeCientifico"`
	NomePopular    *string `json:"NomePopular"`
	Familia        *string `json:"Familia"`
}

// BiomeRef is the reduced projection of a biome used inside expansions.
type BiomeRef struct {
	BiomaID   int64   `json:"BiomaID"`
	Nome      string  `json:"Nome"`
	Descricao *string `json:"Descricao"`
	Regiao    *string `json:"Regiao"`
}

// Pagination is the envelope returned next to a page of records.
type Pagination struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// TreeEntry is one row of the complete-tree read. Each block is nil when its
// branch of the join matched nothing.
type TreeEntry struct {
	EspecieID        int64               `json:"EspecieID"`
	NomeCientifico   string              `json:"NomeCientifico"`
	NomePopular      *string             `json:"NomePopular"`
	Familia          *string             `json:"Familia"`
	DescricaoEspecie *string             `json:"DescricaoEspecie"`
	DataCadastro     *time.Time          `json:"DataCadastro"`
	Biomas           *TreeBiome          `json:"Biomas"`
	Caracteristicas  *TreeCharacteristic `json:"Caracteristicas"`
	Curiosidades     *TreeTrivia         `json:"Curiosidades"`
	DadosArvore      *TreeGrowthData     `json:"DadosArvore"`
}

type TreeBiome struct {
	BiomaID        int64   `json:"BiomaID"`
	NomeBioma      *string `json:"NomeBioma"`
	DescricaoBioma *string `json:"DescricaoBioma"`
	Regiao         *string `json:"Regiao"`
	OcorrenciaID   *int64  `json:"OcorrenciaID"`
	Frequencia     *string `json:"Frequencia"`
}

type TreeCharacteristic struct {
	CaracteristicaID int64    `json:"CaracteristicaID"`
	AlturaMedia      *float64 `json:"AlturaMedia"`
	DiametroMedio    *float64 `json:"DiametroMedio"`
	TipoFolha        *string  `json:"TipoFolha"`
	Floracao         *string  `json:"Floracao"`
}

type TreeTrivia struct {
	CuriosidadeID int64   `json:"CuriosidadeID"`
	Texto         *string `json:"Texto"`
	Fonte         *string `json:"Fonte"`
}

type TreeGrowthData struct {
	DadosID               int64    `json:"DadosID"`
	TempoDeVidaEstimado   *int64   `json:"TempoDeVidaEstimado"`
	CrescimentoAnual      *float64 `json:"CrescimentoAnual"`
	RaizProfundidadeMedia *float64 `json:"RaizProfundidadeMedia"`
	DensidadeMadeira      *float64 `json:"DensidadeMadeira"`
}
