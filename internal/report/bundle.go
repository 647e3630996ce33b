package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"hscreport/internal/analysis"
	"hscreport/internal/dataprocessing"
	"hscreport/internal/errors"
	"hscreport/pkg/contracts/domain"
)

// ChartRenderer rasterizes a declarative chart specification into PNG
// bytes. Implemented outside the core pipeline.
type ChartRenderer interface {
	RenderChart(ctx context.Context, spec domain.ChartSpec) ([]byte, error)
}

// DocumentComposer receives an ordered sequence of page instructions for
// one subject and writes the finished binary document. Implemented
// outside the core pipeline.
type DocumentComposer interface {
	AddTitlePage(title, subtitle string)
	AddTOCPage(heading string, lines []string)
	AddImagePage(title string, png []byte) error
	AddDetailPage(title string, fields [][2]string, image []byte) error
	WriteFile(path string) error
}

// ComposerFactory creates one fresh composer per subject so that no two
// subjects ever share render state.
type ComposerFactory func() DocumentComposer

// BuilderConfig wires the builder's collaborators and knobs.
type BuilderConfig struct {
	Charts            ChartRenderer
	NewComposer       ComposerFactory
	Reconstructor     *dataprocessing.Reconstructor
	OutputDir         string
	OutlierCount      int
	TOCEntriesPerPage int
	// Yield, when non-nil, is invoked between subjects and between
	// expensive stages to hand control back to an interactive host.
	Yield func()
}

// Builder assembles and renders one document per subject, strictly one
// subject at a time so a subject's intermediate chart and image data can
// be released before the next subject begins.
type Builder struct {
	logger            *slog.Logger
	planner           *Planner
	charts            ChartRenderer
	newComposer       ComposerFactory
	reconstructor     *dataprocessing.Reconstructor
	outputDir         string
	tocEntriesPerPage int
	yield             func()
}

// NewBuilder creates a report builder.
func NewBuilder(logger *slog.Logger, cfg BuilderConfig) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TOCEntriesPerPage < 1 {
		cfg.TOCEntriesPerPage = 20
	}
	if cfg.Reconstructor == nil {
		cfg.Reconstructor = dataprocessing.NewReconstructor(logger, dataprocessing.ReconstructorConfig{})
	}
	return &Builder{
		logger:            logger,
		planner:           NewPlanner(logger, cfg.OutlierCount),
		charts:            cfg.Charts,
		newComposer:       cfg.NewComposer,
		reconstructor:     cfg.Reconstructor,
		outputDir:         cfg.OutputDir,
		tocEntriesPerPage: cfg.TOCEntriesPerPage,
		yield:             cfg.Yield,
	}
}

// Result describes one written subject document.
type Result struct {
	Subject   string
	Path      string
	PageCount int
	// RenderFailures counts pages replaced by a placeholder.
	RenderFailures int
}

// BuildAll renders every subject's document in ascending subject order.
// A failed page becomes a placeholder and never aborts its subject; a
// failed subject is logged and never aborts the remaining subjects. The
// first subject-level error is returned after all subjects were tried.
func (b *Builder) BuildAll(ctx context.Context, groups analysis.Groups) ([]Result, error) {
	var results []Result
	var firstErr error

	for _, subject := range groups.Subjects() {
		result, err := b.buildSubject(ctx, subject, groups)
		if err != nil {
			b.logger.ErrorContext(ctx, "failed to build subject document",
				slog.String("subject", subject),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		} else if result != nil {
			results = append(results, *result)
		}
		if b.yield != nil {
			b.yield()
		}
	}

	return results, firstErr
}

// buildSubject plans, renders and writes one subject's bundle.
func (b *Builder) buildSubject(ctx context.Context, subject string, groups analysis.Groups) (*Result, error) {
	pages := b.planner.PlanSubject(subject, groups)
	if len(pages) == 0 {
		b.logger.WarnContext(ctx, "subject produced no pages, skipping",
			slog.String("subject", subject))
		return nil, nil
	}
	if b.yield != nil {
		b.yield()
	}

	entries, tocPageCount := BuildTOC(pages, b.tocEntriesPerPage)
	bundle := domain.ReportBundle{
		Subject:      subject,
		Pages:        pages,
		TOC:          entries,
		TOCPageCount: tocPageCount,
	}

	composer := b.newComposer()
	composer.AddTitlePage("HSC Item Analysis", subject)

	var prev *domain.TOCEntry
	for _, chunk := range PaginateTOC(bundle.TOC, b.tocEntriesPerPage) {
		composer.AddTOCPage("Contents", TOCLines(chunk, prev))
		prev = &chunk[len(chunk)-1]
	}

	failures := 0
	for _, page := range bundle.Pages {
		if err := b.renderPage(ctx, composer, page); err != nil {
			failures++
			b.logger.WarnContext(ctx, "page render failed, inserting placeholder",
				slog.String("subject", subject),
				slog.String("title", page.Title),
				slog.String("category", page.Category.String()),
				slog.String("error", err.Error()))
			b.addPlaceholder(composer, page)
		}
	}

	path := filepath.Join(b.outputDir, ArtifactFilename(subject))
	if err := composer.WriteFile(path); err != nil {
		return nil, errors.NewStorageError("failed to write subject document", err).
			WithContext("subject", subject).
			WithContext("path", path)
	}

	b.logger.InfoContext(ctx, "subject document written",
		slog.String("subject", subject),
		slog.String("path", path),
		slog.Int("pages", len(bundle.Pages)),
		slog.Int("toc_pages", bundle.TOCPageCount),
		slog.Int("render_failures", failures))

	return &Result{
		Subject:        subject,
		Path:           path,
		PageCount:      len(bundle.Pages),
		RenderFailures: failures,
	}, nil
}

// renderPage renders one descriptor through the composer.
func (b *Builder) renderPage(ctx context.Context, composer DocumentComposer, page domain.PageDescriptor) error {
	switch {
	case page.Chart != nil:
		png, err := b.charts.RenderChart(ctx, *page.Chart)
		if err != nil {
			return errors.NewRenderError("chart render failed", err)
		}
		if err := composer.AddImagePage(page.Title, png); err != nil {
			return errors.NewRenderError("image page composition failed", err)
		}
		return nil
	case page.Detail != nil:
		return b.renderDetailPage(composer, page)
	default:
		return errors.NewRenderError("page descriptor carries no content", nil)
	}
}

// renderDetailPage emits one outlier record's detail page. The embedded
// image payload is reconstructed here, at render time, and discarded as
// soon as the composer has consumed it.
func (b *Builder) renderDetailPage(composer DocumentComposer, page domain.PageDescriptor) error {
	detail := page.Detail
	rec := detail.Record

	listName := "Bottom"
	if detail.FromTop {
		listName = "Top"
	}

	fields := [][2]string{
		{"Subject", rec.Subject},
		{"Year", rec.Year},
		{"Item", rec.ItemLabel},
		{"Type", string(rec.Kind)},
		{"Content Area", rec.ContentTag},
		{"Outcome", rec.OutcomeTag},
		{"School Mean", fmt.Sprintf("%.2f", rec.SchoolMean)},
		{"State Mean", fmt.Sprintf("%.2f", rec.StateMean)},
		{"Max Mark", fmt.Sprintf("%.2f", rec.MaxMark)},
		{"Success Rate", FormatSuccessRate(detail.SuccessRate)},
		{"Ranking", fmt.Sprintf("%s %d", listName, detail.Rank)},
	}

	var image []byte
	if payload, ok := b.reconstructor.Reconstruct(rec); ok {
		decoded, err := decodeImagePayload(payload)
		if err != nil {
			return errors.NewRenderError("embedded image is malformed", err)
		}
		image = decoded
	}

	if err := composer.AddDetailPage(page.Title, fields, image); err != nil {
		return errors.NewRenderError("detail page composition failed", err)
	}
	return nil
}

// addPlaceholder replaces a failed page with a visible notice so page
// numbering stays aligned with the TOC.
func (b *Builder) addPlaceholder(composer DocumentComposer, page domain.PageDescriptor) {
	// composer errors on the placeholder itself are ignored; there is
	// nothing further to degrade to
	_ = composer.AddDetailPage(page.Title, [][2]string{
		{"Notice", "this page could not be rendered"},
	}, nil)
}

// FormatSuccessRate renders a success rate, falling back to non-numeric
// text for the degenerate MaxMark == 0 case.
func FormatSuccessRate(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", rate)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// ArtifactFilename derives the output document name for a subject:
// every character outside [A-Za-z0-9] becomes an underscore.
func ArtifactFilename(subject string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(subject, "_")
	return "HSC_Analysis_" + sanitized + ".pdf"
}

// decodeImagePayload strips the data-URI prefix and decodes the base64
// image bytes.
func decodeImagePayload(payload string) ([]byte, error) {
	data := payload
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
