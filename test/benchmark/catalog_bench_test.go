package benchmark

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jsamuelsen/library-catalog/internal/adapters/storage/flatfile"
	"github.com/jsamuelsen/library-catalog/internal/domain"
)

// catalogOf builds a catalog with n records, every third one borrowed.
func catalogOf(n int) *domain.Catalog {
	c := domain.NewCatalog()
	for i := range n {
		c.Add(domain.NewRecord(
			fmt.Sprintf("Title %d, Part %d", i, i%7),
			fmt.Sprintf("Author %d", i%50),
			fmt.Sprintf("%013d", i),
			i%3 != 0,
		))
	}

	return c
}

// BenchmarkCatalogSearch measures a substring scan over all records.
func BenchmarkCatalogSearch(b *testing.B) {
	c := catalogOf(10_000)

	b.ReportAllocs()

	for b.Loop() {
		_ = c.Search("Author 42")
	}
}

// BenchmarkCatalogBorrowReturn measures the identifier lookup path.
func BenchmarkCatalogBorrowReturn(b *testing.B) {
	c := catalogOf(10_000)
	id := fmt.Sprintf("%013d", 4_001)

	b.ReportAllocs()

	for b.Loop() {
		c.Borrow(id)
		c.Return(id)
	}
}

// BenchmarkEncode measures serializing a large catalog.
func BenchmarkEncode(b *testing.B) {
	records := catalogOf(10_000).Snapshot()

	b.ReportAllocs()

	for b.Loop() {
		if err := flatfile.Encode(io.Discard, records); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecode measures parsing a large catalog file including escaped
// commas.
func BenchmarkDecode(b *testing.B) {
	var sb strings.Builder
	if err := flatfile.Encode(&sb, catalogOf(10_000).Snapshot()); err != nil {
		b.Fatal(err)
	}

	data := sb.String()

	b.ReportAllocs()

	for b.Loop() {
		if _, _, err := flatfile.Decode(strings.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStoreSaveLoad measures an atomic save followed by a load.
func BenchmarkStoreSaveLoad(b *testing.B) {
	ctx := context.Background()
	store := flatfile.NewStore(flatfile.StoreConfig{Path: b.TempDir() + "/books.txt"})
	records := catalogOf(1_000).Snapshot()

	b.ReportAllocs()

	for b.Loop() {
		if err := store.Save(ctx, records); err != nil {
			b.Fatal(err)
		}

		if _, err := store.Load(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
