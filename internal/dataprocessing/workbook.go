package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"hscreport/internal/errors"
)

// ReadWorkbook opens an .xlsx workbook and returns the raw cell rows of
// the first sheet that qualifies a header row, falling back to the first
// non-empty sheet. The caller hands the rows to Normalizer; nothing else
// in the pipeline touches the workbook format.
func ReadWorkbook(ctx context.Context, logger *slog.Logger, path string) ([][]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	var fallback [][]string
	var fallbackSheet string

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			logger.WarnContext(ctx, "failed to read sheet, skipping",
				slog.String("sheet", name),
				slog.String("error", err.Error()))
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if _, matched := FindHeaderRow(rows); matched {
			logger.InfoContext(ctx, "found item-analysis data in sheet",
				slog.String("sheet", name),
				slog.Int("total_rows", len(rows)))
			return rows, nil
		}
		if fallback == nil {
			fallback = rows
			fallbackSheet = name
		}
	}

	if fallback != nil {
		logger.WarnContext(ctx, "no sheet qualified a header row, using first non-empty sheet",
			slog.String("sheet", fallbackSheet))
		return fallback, nil
	}

	return nil, errors.NewParsingError("no readable worksheet found in workbook", nil).
		WithContext("path", path)
}
