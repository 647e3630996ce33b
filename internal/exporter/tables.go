package exporter

import (
	"fmt"
	"log/slog"
	"strings"

	"hscreport/internal/analysis"
	"hscreport/pkg/contracts/domain"
)

// TableExporter writes the analysis tables that accompany the PDF
// bundles: per-group tag aggregates and the outlier selections. One CSV
// per subject keeps the files small enough to open directly in Excel.
type TableExporter struct {
	logger *slog.Logger
	writer *CSVWriter
	n      int
}

// NewTableExporter creates a table exporter. n is the outlier count per
// direction.
func NewTableExporter(logger *slog.Logger, writer *CSVWriter, n int) *TableExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if n < 1 {
		n = 5
	}
	return &TableExporter{logger: logger, writer: writer, n: n}
}

// ExportAll writes the aggregate and outlier tables for every subject.
func (e *TableExporter) ExportAll(groups analysis.Groups) error {
	for _, subject := range groups.Subjects() {
		if err := e.exportAggregates(subject, groups); err != nil {
			return err
		}
		if err := e.exportOutliers(subject, groups); err != nil {
			return err
		}
	}
	return nil
}

func (e *TableExporter) exportAggregates(subject string, groups analysis.Groups) error {
	headers := []string{"Year", "Tag Type", "Tag", "Items", "Max Mark Sum", "School Mean Avg", "State Mean Avg"}
	var rows [][]string

	for _, year := range groups.Years(subject) {
		records := groups[subject][year]
		for _, field := range []struct {
			name  string
			field analysis.TagField
		}{
			{"Content Area", analysis.TagFieldContent},
			{"Outcome", analysis.TagFieldOutcome},
		} {
			for _, agg := range analysis.AggregateByTag(records, field.field) {
				rows = append(rows, []string{
					year,
					field.name,
					agg.Tag,
					fmt.Sprintf("%d", agg.Count),
					formatFloat(agg.MaxMarkSum),
					formatFloat(agg.SchoolMeanAvg),
					formatFloat(agg.StateMeanAvg),
				})
			}
		}
	}

	if len(rows) == 0 {
		return nil
	}

	name := tableFilename(subject, "aggregates")
	e.logger.Info("writing aggregate table",
		slog.String("subject", subject),
		slog.String("file", name),
		slog.Int("rows", len(rows)))
	return e.writer.WriteSimpleCSV(name, headers, rows)
}

func (e *TableExporter) exportOutliers(subject string, groups analysis.Groups) error {
	headers := []string{"Year", "List", "Rank", "Item", "Type", "School Mean", "State Mean", "Max Mark"}
	var rows [][]string

	for _, year := range groups.Years(subject) {
		outliers := analysis.SelectOutliers(groups[subject][year], e.n)
		for i, rec := range outliers.Top {
			rows = append(rows, outlierRow(year, "Top", i+1, rec))
		}
		for i, rec := range outliers.Bottom {
			rows = append(rows, outlierRow(year, "Bottom", i+1, rec))
		}
	}

	if len(rows) == 0 {
		return nil
	}

	name := tableFilename(subject, "outliers")
	e.logger.Info("writing outlier table",
		slog.String("subject", subject),
		slog.String("file", name),
		slog.Int("rows", len(rows)))
	return e.writer.WriteSimpleCSV(name, headers, rows)
}

func outlierRow(year, list string, rank int, rec domain.ItemRecord) []string {
	return []string{
		year,
		list,
		fmt.Sprintf("%d", rank),
		rec.ItemLabel,
		string(rec.Kind),
		formatFloat(rec.SchoolMean),
		formatFloat(rec.StateMean),
		formatFloat(rec.MaxMark),
	}
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var tableNameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

func tableFilename(subject, kind string) string {
	return fmt.Sprintf("%s_%s.csv", tableNameReplacer.Replace(subject), kind)
}
