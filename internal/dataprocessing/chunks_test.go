package dataprocessing

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hscreport/pkg/contracts/domain"
)

func recordWithExtra(extra map[string]string) domain.ItemRecord {
	return domain.ItemRecord{
		Subject:   "Biology",
		Year:      "2023",
		ItemLabel: "12b",
		Extra:     extra,
	}
}

func TestReconstructor_SuffixOrder(t *testing.T) {
	r := NewReconstructor(slog.Default(), ReconstructorConfig{})

	// declaration order must not matter, only the numeric suffix
	payload, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 2": "A",
		"Image Data 0": "B",
		"Image Data 1": "C",
	}))

	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,BCA", payload)
}

func TestReconstructor_IgnoresNonNumericSuffixes(t *testing.T) {
	r := NewReconstructor(nil, ReconstructorConfig{})

	payload, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 0":   "A",
		"Image Data two": "Z",
		"Image Data":     "Z",
		"Notes":          "Z",
	}))

	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,A", payload)
}

func TestReconstructor_PerChunkCeiling(t *testing.T) {
	r := NewReconstructor(nil, ReconstructorConfig{MaxChunkBytes: 10})

	// an oversized chunk is skipped, not substituted, even when it is
	// the only chunk
	_, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 0": strings.Repeat("x", 11),
	}))
	assert.False(t, ok)

	// surviving neighbors are still merged
	payload, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 0": strings.Repeat("x", 11),
		"Image Data 1": "ok",
	}))
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,ok", payload)
}

func TestReconstructor_RunningTotalCeiling(t *testing.T) {
	r := NewReconstructor(nil, ReconstructorConfig{MaxChunkBytes: 10, MaxPayloadBytes: 8})

	// 0 and 1 fit (4+4), 2 would push the total past the ceiling and the
	// remainder is discarded rather than failing
	payload, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 0": "aaaa",
		"Image Data 1": "bbbb",
		"Image Data 2": "cccc",
	}))

	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,aaaabbbb", payload)
}

func TestReconstructor_ChunkCountCeiling(t *testing.T) {
	r := NewReconstructor(nil, ReconstructorConfig{MaxChunkCount: 2})

	payload, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 0": "a",
		"Image Data 1": "b",
		"Image Data 2": "c",
		"Image Data 3": "d",
	}))

	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,ab", payload)
}

func TestReconstructor_ExistingPrefixKept(t *testing.T) {
	r := NewReconstructor(nil, ReconstructorConfig{})

	payload, ok := r.Reconstruct(recordWithExtra(map[string]string{
		"Image Data 0": "data:image/png;base64,abcd",
	}))

	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,abcd", payload)
}

func TestReconstructor_NoChunks(t *testing.T) {
	r := NewReconstructor(nil, ReconstructorConfig{})

	_, ok := r.Reconstruct(recordWithExtra(nil))
	assert.False(t, ok)

	_, ok = r.Reconstruct(recordWithExtra(map[string]string{"Notes": "x"}))
	assert.False(t, ok)
}
