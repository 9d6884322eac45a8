package database

// Store groups the repositories of every table over one DB.
type Store struct {
	db *DB

	Species         *Repository[Species]
	Biomes          *Repository[Biome]
	Occurrences     *Repository[Occurrence]
	Characteristics *Repository[Characteristic]
	Trivia          *Repository[Trivia]
	GrowthData      *Repository[GrowthData]
}

func NewStore(db *DB) *Store {
	return &Store{
		db:              db,
		Species:         NewRepository[Species](db, SpeciesDescriptor{}),
		Biomes:          NewRepository[Biome](db, BiomeDescriptor{}),
		Occurrences:     NewRepository[Occurrence](db, OccurrenceDescriptor{}),
		Characteristics: NewRepository[Characteristic](db, CharacteristicDescriptor{}),
		Trivia:          NewRepository[Trivia](db, TriviaDescriptor{}),
		GrowthData:      NewRepository[GrowthData](db, GrowthDataDescriptor{}),
	}
}

func (st *Store) DB() *DB {
	return st.db
}
