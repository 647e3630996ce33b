package dataprocessing

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"hscreport/pkg/contracts/domain"
)

// chunkFieldPattern matches image chunk columns: a base name with a strictly
// numeric suffix, e.g. "Image Data 3" or "ImageData12". Non-numeric suffixes
// are ignored outright, not deprioritized.
var chunkFieldPattern = regexp.MustCompile(`(?i)^image\s*data\s*(\d+)$`)

// pngDataPrefix is prepended to reconstructed payloads that do not already
// carry a recognized image-data prefix.
const pngDataPrefix = "data:image/png;base64,"

// ReconstructorConfig carries the hard safety bounds for payload
// reconstruction. Zero values fall back to the spreadsheet-era defaults:
// 500 KiB per chunk, 50 MiB total, 200 chunk fields.
type ReconstructorConfig struct {
	MaxChunkBytes   int
	MaxPayloadBytes int
	MaxChunkCount   int
}

// Reconstructor merges the size-capped image chunk columns attached to a
// record back into one payload string. Chunking exists only to survive
// spreadsheet cell-size limits; reconstruction runs lazily, once per detail
// page at render time, and results are never cached.
type Reconstructor struct {
	logger          *slog.Logger
	maxChunkBytes   int
	maxPayloadBytes int
	maxChunkCount   int
}

// NewReconstructor creates a reconstructor with the given bounds.
func NewReconstructor(logger *slog.Logger, cfg ReconstructorConfig) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxChunkBytes <= 0 {
		cfg.MaxChunkBytes = 500 * 1024
	}
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = 50 * 1024 * 1024
	}
	if cfg.MaxChunkCount <= 0 {
		cfg.MaxChunkCount = 200
	}
	return &Reconstructor{
		logger:          logger,
		maxChunkBytes:   cfg.MaxChunkBytes,
		maxPayloadBytes: cfg.MaxPayloadBytes,
		maxChunkCount:   cfg.MaxChunkCount,
	}
}

type chunk struct {
	index int
	value string
}

// Reconstruct merges the record's chunk fields in ascending suffix order.
// The boolean is false when no chunk survives the bounds, which callers
// treat as "image unavailable", never as an error.
func (r *Reconstructor) Reconstruct(rec domain.ItemRecord) (string, bool) {
	chunks := collectChunks(rec.Extra)
	if len(chunks) == 0 {
		return "", false
	}

	// chunk-count ceiling applies before the size filters
	if len(chunks) > r.maxChunkCount {
		r.logger.Warn("record carries more chunk fields than the ceiling, truncating",
			slog.String("item", rec.ItemLabel),
			slog.Int("chunks", len(chunks)),
			slog.Int("ceiling", r.maxChunkCount))
		chunks = chunks[:r.maxChunkCount]
	}

	var parts []string
	total := 0
	for _, c := range chunks {
		if len(c.value) > r.maxChunkBytes {
			r.logger.Warn("skipping oversized payload chunk",
				slog.String("item", rec.ItemLabel),
				slog.Int("chunk_index", c.index),
				slog.Int("size", len(c.value)),
				slog.Int("ceiling", r.maxChunkBytes))
			continue
		}
		if total+len(c.value) > r.maxPayloadBytes {
			r.logger.Warn("payload size ceiling reached, discarding remaining chunks",
				slog.String("item", rec.ItemLabel),
				slog.Int("accepted_bytes", total),
				slog.Int("ceiling", r.maxPayloadBytes))
			break
		}
		total += len(c.value)
		parts = append(parts, c.value)
	}

	if len(parts) == 0 {
		return "", false
	}

	payload := strings.Join(parts, "")
	if !strings.HasPrefix(payload, "data:image") {
		payload = pngDataPrefix + payload
	}
	return payload, true
}

// collectChunks enumerates chunk fields by explicit pattern match on the
// record's unmapped columns and sorts them ascending by numeric suffix,
// independent of field-declaration order.
func collectChunks(extra map[string]string) []chunk {
	var chunks []chunk
	for key, val := range extra {
		m := chunkFieldPattern.FindStringSubmatch(strings.TrimSpace(key))
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		chunks = append(chunks, chunk{index: idx, value: val})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].index < chunks[j].index
	})
	return chunks
}
