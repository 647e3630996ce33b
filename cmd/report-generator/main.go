package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"hscreport/internal/analysis"
	"hscreport/internal/config"
	"hscreport/internal/dataprocessing"
	"hscreport/internal/exporter"
	"hscreport/internal/files"
	"hscreport/internal/infrastructure"
	"hscreport/internal/render"
	"hscreport/internal/report"
	"hscreport/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory for .xlsx files (defaults to the configured input path)")
	outDir := flag.String("out", "", "output directory for report documents (defaults to the configured output path)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *inDir != "" {
		cfg.Paths.InputDir = *inDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithNewTraceID(context.Background())

	logger.InfoContext(ctx, "Starting HSC item-analysis report generation",
		slog.String("input_dir", cfg.Paths.InputDir),
		slog.String("output_dir", cfg.Paths.OutputDir))

	if err := run(ctx, logger, cfg); err != nil {
		logger.ErrorContext(ctx, "Report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	discovery := files.NewDiscovery("")
	workbooks, err := discovery.FindWorkbooks(cfg.Paths.InputDir)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Workbooks discovered", slog.Int("count", len(workbooks)))
	fmt.Printf("Found %d workbooks\n", len(workbooks))
	if len(workbooks) == 0 {
		logger.WarnContext(ctx, "No workbooks found in input directory",
			slog.String("input_dir", cfg.Paths.InputDir))
		fmt.Println("Nothing to do")
		return nil
	}

	normalizer := dataprocessing.NewNormalizer(logger)

	var records []domain.ItemRecord
	var rejected, failed int
	for i, wb := range workbooks {
		logger.InfoContext(ctx, "Processing workbook",
			slog.Int("current", i+1),
			slog.Int("total", len(workbooks)),
			slog.String("filename", wb.Name))
		fmt.Printf("Processing workbook %d of %d: %s\n", i+1, len(workbooks), wb.Name)

		rows, err := dataprocessing.ReadWorkbook(ctx, logger, wb.Path)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to read workbook",
				slog.String("filename", wb.Name),
				slog.String("error", err.Error()))
			failed++
			continue
		}

		result, err := normalizer.Normalize(ctx, rows)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to normalize workbook",
				slog.String("filename", wb.Name),
				slog.String("error", err.Error()))
			failed++
			continue
		}

		logger.InfoContext(ctx, "Workbook normalized",
			slog.String("filename", wb.Name),
			slog.Int("records", len(result.Records)),
			slog.Int("rejected_rows", result.Rejected),
			slog.Int("header_row", result.HeaderRow))

		records = append(records, result.Records...)
		rejected += result.Rejected
	}

	if len(records) == 0 {
		return fmt.Errorf("no usable records found across %d workbooks", len(workbooks))
	}

	groups := analysis.GroupRecords(records)
	logger.InfoContext(ctx, "Records grouped",
		slog.Int("records", len(records)),
		slog.Int("rejected_rows", rejected),
		slog.Int("failed_workbooks", failed),
		slog.Int("subjects", len(groups.Subjects())))

	var yield func()
	if cfg.Report.YieldBetweenStages {
		yield = runtime.Gosched
	}

	builder := report.NewBuilder(logger, report.BuilderConfig{
		Charts: render.NewChartImage(logger),
		NewComposer: func() report.DocumentComposer {
			return render.NewPDFComposer()
		},
		Reconstructor: dataprocessing.NewReconstructor(logger, dataprocessing.ReconstructorConfig{
			MaxChunkBytes:   cfg.Report.MaxChunkBytes,
			MaxPayloadBytes: cfg.Report.MaxPayloadBytes,
			MaxChunkCount:   cfg.Report.MaxChunkCount,
		}),
		OutputDir:         cfg.Paths.OutputDir,
		OutlierCount:      cfg.Report.OutlierCount,
		TOCEntriesPerPage: cfg.Report.TOCEntriesPerPage,
		Yield:             yield,
	})

	results, buildErr := builder.BuildAll(ctx, groups)
	for _, res := range results {
		fmt.Printf("Wrote %s (%d pages, %d render failures)\n",
			res.Path, res.PageCount, res.RenderFailures)
	}

	if cfg.Report.ExportCSV {
		tables := exporter.NewTableExporter(logger,
			exporter.NewCSVWriter(cfg.Paths.OutputDir), cfg.Report.OutlierCount)
		if err := tables.ExportAll(groups); err != nil {
			logger.WarnContext(ctx, "Failed to export CSV tables",
				slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "Report generation complete",
		slog.Int("documents", len(results)),
		slog.Int("subjects", len(groups.Subjects())))
	fmt.Printf("Generation complete: %d documents\n", len(results))

	return buildErr
}
