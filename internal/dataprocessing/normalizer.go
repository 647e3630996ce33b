package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"hscreport/internal/errors"
	"hscreport/pkg/contracts/domain"
)

// Canonical column names after normalization.
const (
	ColSubject    = "Subject"
	ColYear       = "Year"
	ColItemLabel  = "Question (Item)"
	ColKind       = "MC/ER"
	ColContentTag = "ContentTag"
	ColOutcomeTag = "OutcomeTag"
	ColSchoolMean = "School Mean (Item)"
	ColStateMean  = "State Mean (Item)"
	ColMaxMark    = "Max Mark (Item)"
)

const (
	// headerScanMaxRows bounds the header-row search from the top.
	headerScanMaxRows = 20
	// headerScanMaxCols bounds how many columns per row the header scan
	// inspects. Payload chunks live further right and must never be
	// stringified during this scan.
	headerScanMaxCols = 12
	// headerScanMaxCellLen: any cell whose string form exceeds this is
	// treated as empty for the header scan only.
	headerScanMaxCellLen = 1000
)

// Normalizer converts raw worksheet rows into canonical ItemRecords.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the default.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Result holds the outcome of normalizing one worksheet.
type Result struct {
	Records []domain.ItemRecord
	// Rejected counts rows dropped by the validity filter.
	Rejected  int
	HeaderRow int
}

// Normalize locates the header row, canonicalizes column names, coerces
// types and applies the row validity filter. Input row order is preserved
// for records that pass. It fails only when the header row maps neither a
// subject nor an item-label column, i.e. the sheet carries no usable schema.
func (n *Normalizer) Normalize(ctx context.Context, rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, errors.NewParsingError("worksheet contains no rows", nil)
	}

	headerRow, matched := FindHeaderRow(rows)
	if !matched {
		n.logger.WarnContext(ctx, "no qualifying header row found, falling back to row 0")
	}

	header := rows[headerRow]
	columns := canonicalizeHeaders(header)

	if _, ok := columns[ColSubject]; !ok {
		if _, ok := columns[ColItemLabel]; !ok {
			return nil, errors.NewParsingError("header row maps no recognizable columns", nil).
				WithContext("header_row", headerRow)
		}
	}

	n.logger.InfoContext(ctx, "header row located",
		slog.Int("header_row", headerRow),
		slog.Bool("matched", matched),
		slog.Int("mapped_columns", len(columns)))

	result := &Result{HeaderRow: headerRow}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if rowIsEmpty(row) {
			continue
		}

		rec := n.buildRecord(header, columns, row)

		label := strings.ToLower(strings.TrimSpace(rec.ItemLabel))
		if strings.HasPrefix(label, "question") {
			// repeated header or metadata row embedded in the data
			result.Rejected++
			continue
		}
		if rec.Subject == "" || rec.Year == "" || rec.ItemLabel == "" {
			result.Rejected++
			continue
		}

		result.Records = append(result.Records, rec)
	}

	n.logger.InfoContext(ctx, "normalization complete",
		slog.Int("records", len(result.Records)),
		slog.Int("rejected", result.Rejected))

	return result, nil
}

// FindHeaderRow scans at most the first 20 rows, inspecting only the first
// 12 columns of each, for a row containing the literal token "Subject" and
// a cell containing "Question (Item)". The first qualifying row wins.
// Returns (0, false) when no row qualifies.
func FindHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > headerScanMaxRows {
		limit = headerScanMaxRows
	}

	for i := 0; i < limit; i++ {
		hasSubject := false
		hasItem := false

		cols := len(rows[i])
		if cols > headerScanMaxCols {
			cols = headerScanMaxCols
		}
		for j := 0; j < cols; j++ {
			cell := rows[i][j]
			if len(cell) > headerScanMaxCellLen {
				continue
			}
			trimmed := strings.TrimSpace(cell)
			if trimmed == "Subject" {
				hasSubject = true
			}
			if strings.Contains(trimmed, "Question (Item)") {
				hasItem = true
			}
		}
		if hasSubject && hasItem {
			return i, true
		}
	}
	return 0, false
}

// canonicalizeHeaders maps column indexes onto canonical names. When two
// raw headers canonicalize to the same name the first occurrence wins.
func canonicalizeHeaders(header []string) map[string]int {
	columns := make(map[string]int)
	for j, raw := range header {
		name := canonicalName(raw)
		if name == "" {
			continue
		}
		if _, seen := columns[name]; seen {
			continue
		}
		columns[name] = j
	}
	return columns
}

// canonicalName maps a raw header onto its canonical column name, or ""
// when the header is not part of the canonical schema.
func canonicalName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.Contains(trimmed, "Content Area"),
		strings.Contains(trimmed, "(QPC)"),
		trimmed == "QPC":
		return ColContentTag
	case strings.Contains(trimmed, "Learning Outcome"),
		strings.Contains(trimmed, "(QPO)"),
		trimmed == "QPO":
		return ColOutcomeTag
	case trimmed == ColSubject:
		return ColSubject
	case trimmed == ColYear:
		return ColYear
	case strings.Contains(trimmed, "Question (Item)"):
		return ColItemLabel
	case trimmed == ColKind:
		return ColKind
	case strings.Contains(trimmed, "School Mean"):
		return ColSchoolMean
	case strings.Contains(trimmed, "State Mean"):
		return ColStateMean
	case strings.Contains(trimmed, "Max Mark"):
		return ColMaxMark
	default:
		return ""
	}
}

// buildRecord coerces one data row into an ItemRecord. Columns that did
// not canonicalize are kept verbatim in Extra for the chunk-field scanner.
func (n *Normalizer) buildRecord(header []string, columns map[string]int, row []string) domain.ItemRecord {
	get := func(name string) string {
		if idx, ok := columns[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	rec := domain.ItemRecord{
		Subject:    get(ColSubject),
		Year:       coerceYear(get(ColYear)),
		ItemLabel:  get(ColItemLabel),
		Kind:       domain.ParseItemKind(get(ColKind)),
		ContentTag: get(ColContentTag),
		OutcomeTag: get(ColOutcomeTag),
		SchoolMean: coerceFloat(get(ColSchoolMean)),
		StateMean:  coerceFloat(get(ColStateMean)),
		MaxMark:    coerceFloat(get(ColMaxMark)),
	}

	mapped := make(map[int]bool, len(columns))
	for _, idx := range columns {
		mapped[idx] = true
	}
	for j, val := range row {
		if mapped[j] || val == "" {
			continue
		}
		if j >= len(header) {
			continue
		}
		key := strings.TrimSpace(header[j])
		if key == "" {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[key] = val
	}

	return rec
}

// coerceYear normalizes a year cell: integers canonicalized via strconv,
// anything else kept as trimmed text.
func coerceYear(raw string) string {
	if v, err := strconv.Atoi(raw); err == nil {
		return strconv.Itoa(v)
	}
	return raw
}

// coerceFloat parses a numeric cell, tolerating thousands separators.
// Unparseable values default to 0.
func coerceFloat(raw string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	return v
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
