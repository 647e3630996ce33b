package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestDiscovery_FindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "results_2023.xlsx")
	touch(t, dir, "Results_2022.XLSX")
	touch(t, dir, "legacy.xls")
	touch(t, dir, "~$results_2023.xlsx")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0755))

	d := NewDiscovery("")
	found, err := d.FindWorkbooks(dir)
	require.NoError(t, err)

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Results_2022.XLSX", "legacy.xls", "results_2023.xlsx"}, names)
}

func TestDiscovery_FindWorkbooks_RelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "input"), 0755))
	touch(t, filepath.Join(base, "input"), "a.xlsx")

	d := NewDiscovery(base)
	found, err := d.FindWorkbooks("input")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(base, "input", "a.xlsx"), found[0].Path)
}

func TestDiscovery_FindWorkbooks_MissingDir(t *testing.T) {
	d := NewDiscovery("")
	_, err := d.FindWorkbooks(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestDiscovery_FindReports(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "HSC_Analysis_Biology.pdf")
	touch(t, dir, "HSC_Analysis_Chemistry.pdf")
	touch(t, dir, "unrelated.pdf")

	d := NewDiscovery("")
	found, err := d.FindReports(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "HSC_Analysis_Biology.pdf", found[0].Name)
	assert.Equal(t, "HSC_Analysis_Chemistry.pdf", found[1].Name)
}
