package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"Year", "Tag"},
		[][]string{{"2023", "Cells"}, {"2023", "Genetics"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "BOM prefix")
	assert.Contains(t, string(data), "Year,Tag\n")
	assert.Contains(t, string(data), "2023,Cells\n")
	assert.Contains(t, string(data), "2023,Genetics\n")
}

func TestCSVWriter_CreatesMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV(filepath.Join("nested", "out.csv"), WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "nested", "out.csv"))
	assert.NoError(t, err)
}

func TestCSVWriter_NoBOMWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteCSV("plain.csv", WriteOptions{
		Headers: []string{"a"},
	}))

	data, err := os.ReadFile(filepath.Join(dir, "plain.csv"))
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}
