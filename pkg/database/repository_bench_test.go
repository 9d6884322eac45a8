package database

import (
	"context"
	"fmt"
	"testing"
)

// setupBenchStore creates a store with speciesCount species, each occurring
// in both seeded biomes and carrying one characteristic.
func setupBenchStore(b *testing.B, speciesCount int) *Store {
	b.Helper()

	st := setupTestStore(b)
	ctx := context.Background()

	var biomeIDs []int64
	for _, nome := range []string{"Mata Atlântica", "Cerrado"} {
		biome, err := st.Biomes.Create(ctx, map[string]any{"Nome": nome})
		if err != nil {
			b.Fatal(err)
		}
		biomeIDs = append(biomeIDs, biome.BiomaID)
	}

	for i := 0; i < speciesCount; i++ {
		sp, err := st.Species.Create(ctx, map[string]any{
			"NomeCientifico": fmt.Sprintf("Species %d", i),
			"NomePopular":    fmt.Sprintf("arvore_%d", i),
			"Familia":        fmt.Sprintf("family_%d", i%10),
		})
		if err != nil {
			b.Fatal(err)
		}
		for _, biomeID := range biomeIDs {
			if _, err := st.Occurrences.Create(ctx, map[string]any{"EspecieID": sp.EspecieID, "BiomaID": biomeID}); err != nil {
				b.Fatal(err)
			}
		}
		if _, err := st.Characteristics.Create(ctx, map[string]any{"EspecieID": sp.EspecieID, "AlturaMedia": float64(i % 30)}); err != nil {
			b.Fatal(err)
		}
	}

	return st
}

// BenchmarkList measures one page with and without relationship expansion
func BenchmarkList(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		for _, expand := range []bool{false, true} {
			b.Run(fmt.Sprintf("size_%d_expand_%t", size, expand), func(b *testing.B) {
				st := setupBenchStore(b, size)
				ctx := context.Background()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					page, err := st.Species.List(ctx, ListOptions{Page: 1, PerPage: 100, Expand: expand})
					if err != nil {
						b.Fatal(err)
					}
					if want := min(size, 100); len(page.Data) != want {
						b.Fatalf("expected %d species, got %d", want, len(page.Data))
					}
				}
			})
		}
	}
}

// BenchmarkListFiltered measures substring filtering over the whole table
func BenchmarkListFiltered(b *testing.B) {
	sizes := []int{100, 1000}
	filters := []string{"family_1", "arvore_9", "family_"}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			st := setupBenchStore(b, size)
			ctx := context.Background()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				f := filters[i%len(filters)]
				if _, err := st.Species.List(ctx, ListOptions{Page: 1, PerPage: 50, Filters: map[string]string{"Familia": f}}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCompleteTree measures the denormalized join for a single species
func BenchmarkCompleteTree(b *testing.B) {
	st := setupBenchStore(b, 100)
	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		entries, err := st.CompleteTree(ctx, int64(i%100)+1)
		if err != nil {
			b.Fatal(err)
		}
		if len(entries) != 2 {
			b.Fatalf("expected 2 entries, got %d", len(entries))
		}
	}
}

// BenchmarkCreate measures single-row inserts including the re-fetch
func BenchmarkCreate(b *testing.B) {
	st := setupTestStore(b)
	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := st.Biomes.Create(ctx, map[string]any{"Nome": fmt.Sprintf("bioma_%d", i)}); err != nil {
			b.Fatal(err)
		}
	}
}
