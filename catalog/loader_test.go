package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"$10000", 10000, true},
		{"10000", 10000, true},
		{"$ 10.000", 10000, true},
		{"  $9.500 ", 9500, true},
		{"gratis", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLoadMenu(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "menu.txt", `
# carta del dia
Milanesa = $9.000
Sandwich Especial = 7000

Empanada $1500
sin precio
= $123
`)

	cat, err := LoadMenu(path)
	require.NoError(t, err)
	require.Len(t, cat.Entries, 3)

	assert.Equal(t, "milanesa", cat.Entries[0].SKU)
	assert.Equal(t, "Milanesa", cat.Entries[0].Name)
	assert.Equal(t, 9000, cat.Entries[0].Price)
	assert.Equal(t, []string{"milanesa"}, cat.Entries[0].Keys)

	assert.Equal(t, "sandwich_especial", cat.Entries[1].SKU)
	assert.Equal(t, 7000, cat.Entries[1].Price)

	assert.Equal(t, "empanada", cat.Entries[2].SKU)
	assert.Equal(t, 1500, cat.Entries[2].Price)

	assert.NotNil(t, cat.Get("milanesa"))
	assert.Nil(t, cat.Get("inexistente"))
}

func TestLoadMenu_Missing(t *testing.T) {
	_, err := LoadMenu(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoadSynonyms(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "synonyms.txt", `
# alias
milanesa|mila, milanga , Milanesas
sandwich_especial|especial
linea invalida sin pipe
`)

	syn, err := LoadSynonyms(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mila", "milanga", "milanesas"}, syn["milanesa"])
	assert.Equal(t, []string{"especial"}, syn["sandwich_especial"])
	assert.NotContains(t, syn, "linea invalida sin pipe")
}

func TestLoadSynonyms_MissingIsEmpty(t *testing.T) {
	syn, err := LoadSynonyms(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, syn)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	menuPath := writeFile(t, dir, "menu.txt", "Milanesa = $9000\n")
	synPath := writeFile(t, dir, "synonyms.txt", "milanesa|mila\n")

	l := &Loader{MenuPath: menuPath, SynonymsPath: synPath}
	cat, idx, err := l.Load()
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, map[string]int{"milanesa": 1}, Match("una mila", idx))
}

func TestLoader_LoadMissingMenu(t *testing.T) {
	l := &Loader{MenuPath: filepath.Join(t.TempDir(), "nope.txt")}
	_, _, err := l.Load()
	assert.Error(t, err)
}

func TestCatalog_HasBeverages(t *testing.T) {
	with := NewCatalog([]*Entry{{SKU: "coca_cola", Name: "Coca Cola", Price: 2000, Keys: []string{"coca cola"}}})
	without := NewCatalog([]*Entry{{SKU: "milanesa", Name: "Milanesa", Price: 9000, Keys: []string{"milanesa"}}})
	assert.True(t, with.HasBeverages())
	assert.False(t, without.HasBeverages())
}
