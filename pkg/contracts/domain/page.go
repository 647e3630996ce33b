package domain

// PageCategory identifies what kind of content a page carries. It is
// assigned when the descriptor is built and drives the render ordering;
// page titles are presentation only and never inspected to classify pages.
type PageCategory int

const (
	// CategoryItemChart covers the plain per-item MC/ER bar+line charts.
	CategoryItemChart PageCategory = iota
	// CategoryDiffChart covers per-item school-vs-state difference charts.
	CategoryDiffChart
	// CategorySummaryChart covers the top/bottom performance summary charts.
	CategorySummaryChart
	// CategoryDetail covers per-outlier-record detail pages.
	CategoryDetail
	// CategoryTagSummary covers content/outcome tag summary charts.
	CategoryTagSummary
	// CategoryBreakdown covers per-tag-group item breakdown charts.
	CategoryBreakdown
	// CategoryTagDiff covers tag summary school-vs-state charts.
	CategoryTagDiff
)

// Score returns the fixed render-ordering weight for the category.
// Lower scores render first within a (subject, year) group.
func (c PageCategory) Score() int {
	switch c {
	case CategoryItemChart:
		return 10
	case CategoryDiffChart:
		return 20
	case CategorySummaryChart:
		return 25
	case CategoryDetail:
		return 35
	case CategoryTagSummary:
		return 40
	case CategoryBreakdown:
		return 50
	case CategoryTagDiff:
		return 60
	default:
		return 100
	}
}

// String returns a stable name for logging.
func (c PageCategory) String() string {
	switch c {
	case CategoryItemChart:
		return "item_chart"
	case CategoryDiffChart:
		return "diff_chart"
	case CategorySummaryChart:
		return "summary_chart"
	case CategoryDetail:
		return "detail"
	case CategoryTagSummary:
		return "tag_summary"
	case CategoryBreakdown:
		return "breakdown"
	case CategoryTagDiff:
		return "tag_diff"
	default:
		return "unknown"
	}
}

// SeriesRole selects how a chart series is drawn.
type SeriesRole string

const (
	RoleBar  SeriesRole = "bar"
	RoleLine SeriesRole = "line"
)

// AxisRole selects which Y axis a series is plotted against.
type AxisRole string

const (
	AxisPrimary   AxisRole = "primary"
	AxisSecondary AxisRole = "secondary"
)

// ChartSeries is one named value series of a chart specification.
// Values are index-aligned with the spec's Labels.
type ChartSeries struct {
	Name   string
	Values []float64
	Role   SeriesRole
	Axis   AxisRole
}

// ChartSpec is the declarative chart description handed to the external
// chart renderer. The pipeline never manipulates pixels itself.
type ChartSpec struct {
	Title    string
	Labels   []string
	Series   []ChartSeries
	DualAxis bool
	// ValueSuffix is a per-point label formatting hint, e.g. "%".
	ValueSuffix string
}

// DetailSpec references a single outlier record for a detail page.
// The record's embedded image is reconstructed lazily at render time.
type DetailSpec struct {
	Record ItemRecord
	// Rank is the 1-based position within the top or bottom list.
	Rank    int
	FromTop bool
	// SuccessRate may be non-finite when the record's MaxMark is zero.
	SuccessRate float64
}

// PageDescriptor is one abstract page of a subject's report, immutable once
// created and consumed exactly once by the renderer. Exactly one of Chart
// and Detail is set, matching Category.
type PageDescriptor struct {
	Subject  string
	Year     string
	Title    string
	Category PageCategory
	Chart    *ChartSpec
	Detail   *DetailSpec
}

// GroupKey returns the page's composite (subject, year) ordering key.
func (p PageDescriptor) GroupKey() string {
	return GroupKey(p.Subject, p.Year)
}

// TOCEntry is one line of a subject's table of contents. PageNumber is the
// final 1-based page number in the rendered document, title page and TOC
// listing pages included.
type TOCEntry struct {
	Subject    string
	Year       string
	Title      string
	PageNumber int
}

// ReportBundle is the assembled plan for one subject's output artifact.
// Subjects are never interleaved within one bundle.
type ReportBundle struct {
	Subject      string
	Pages        []PageDescriptor
	TOC          []TOCEntry
	TOCPageCount int
}
