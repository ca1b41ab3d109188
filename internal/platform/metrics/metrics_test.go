package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_WriteTextfile(t *testing.T) {
	r := New()
	r.ObserveOperation("add", "added")
	r.ObserveOperation("add", "added")
	r.ObserveOperation("borrow", "not_found")
	r.AddSkipped(2)
	r.SetInventory(5, 1)

	path := filepath.Join(t.TempDir(), "textfile", "catalog.prom")
	require.NoError(t, r.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, `library_catalog_operations_total{operation="add",outcome="added"} 2`)
	assert.Contains(t, text, `library_catalog_operations_total{operation="borrow",outcome="not_found"} 1`)
	assert.Contains(t, text, "library_catalog_skipped_lines_total 2")
	assert.Contains(t, text, "library_catalog_records 5")
	assert.Contains(t, text, "library_catalog_borrowed_records 1")
}

func TestRegistry_Gatherer(t *testing.T) {
	r := New()
	r.ObserveOperation("list", "empty")

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "library_catalog_operations_total")
	assert.Contains(t, names, "library_catalog_records")
}
