package report

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"hscreport/internal/analysis"
	"hscreport/pkg/contracts/domain"
)

// Planner converts one subject's grouped records into page descriptors.
// Every descriptor gets its category assigned here, at creation time;
// nothing downstream classifies pages by their titles.
type Planner struct {
	logger       *slog.Logger
	outlierCount int
}

// NewPlanner creates a planner. outlierCount is N for the top/bottom
// selections; values below 1 fall back to 5.
func NewPlanner(logger *slog.Logger, outlierCount int) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if outlierCount < 1 {
		outlierCount = 5
	}
	return &Planner{logger: logger, outlierCount: outlierCount}
}

// PlanSubject produces the final ordered page-descriptor list for one
// subject across all of its years.
func (p *Planner) PlanSubject(subject string, groups analysis.Groups) []domain.PageDescriptor {
	var pages []domain.PageDescriptor
	for _, year := range groups.Years(subject) {
		pages = append(pages, p.planYear(subject, year, groups[subject][year])...)
	}
	return OrderPages(pages)
}

// planYear emits the pages of one (subject, year) group in encounter
// order; OrderPages establishes the final ordering afterwards.
func (p *Planner) planYear(subject, year string, records []domain.ItemRecord) []domain.PageDescriptor {
	var pages []domain.PageDescriptor

	add := func(category domain.PageCategory, title string, chart *domain.ChartSpec, detail *domain.DetailSpec) {
		pages = append(pages, domain.PageDescriptor{
			Subject:  subject,
			Year:     year,
			Title:    title,
			Category: category,
			Chart:    chart,
			Detail:   detail,
		})
	}
	prefix := fmt.Sprintf("%s %s: ", subject, year)

	mc := filterKind(records, domain.KindMC)
	er := filterKind(records, domain.KindER)

	if spec := itemChartSpec(mc, prefix+"Multiple Choice Items"); spec != nil {
		add(domain.CategoryItemChart, spec.Title, spec, nil)
	}
	if spec := itemChartSpec(er, prefix+"Extended Response Items"); spec != nil {
		add(domain.CategoryItemChart, spec.Title, spec, nil)
	}
	if spec := diffChartSpec(mc, prefix+"Multiple Choice (School vs State)"); spec != nil {
		add(domain.CategoryDiffChart, spec.Title, spec, nil)
	}
	if spec := diffChartSpec(er, prefix+"Extended Response (School vs State)"); spec != nil {
		add(domain.CategoryDiffChart, spec.Title, spec, nil)
	}

	outliers := analysis.SelectOutliers(records, p.outlierCount)
	if spec := outlierChartSpec(outliers.Top, fmt.Sprintf("%sTop %d Items", prefix, len(outliers.Top))); spec != nil {
		add(domain.CategorySummaryChart, spec.Title, spec, nil)
	}
	if spec := outlierChartSpec(outliers.Bottom, fmt.Sprintf("%sBottom %d Items", prefix, len(outliers.Bottom))); spec != nil {
		add(domain.CategorySummaryChart, spec.Title, spec, nil)
	}

	for i, outlier := range outliers.Top {
		title := fmt.Sprintf("%sItem %s Detail (Top %d)", prefix, outlier.ItemLabel, i+1)
		add(domain.CategoryDetail, title, nil, &domain.DetailSpec{
			Record:      outlier,
			Rank:        i + 1,
			FromTop:     true,
			SuccessRate: outlier.SuccessRate(),
		})
	}
	for i, outlier := range outliers.Bottom {
		title := fmt.Sprintf("%sItem %s Detail (Bottom %d)", prefix, outlier.ItemLabel, i+1)
		add(domain.CategoryDetail, title, nil, &domain.DetailSpec{
			Record:      outlier,
			Rank:        i + 1,
			FromTop:     false,
			SuccessRate: outlier.SuccessRate(),
		})
	}

	contentAggs := analysis.AggregateByTag(records, analysis.TagFieldContent)
	outcomeAggs := analysis.AggregateByTag(records, analysis.TagFieldOutcome)

	if spec := tagChartSpec(contentAggs, prefix+"Content Area Summary"); spec != nil {
		add(domain.CategoryTagSummary, spec.Title, spec, nil)
	}
	if spec := tagChartSpec(outcomeAggs, prefix+"Outcome Summary"); spec != nil {
		add(domain.CategoryTagSummary, spec.Title, spec, nil)
	}
	if spec := tagDiffChartSpec(contentAggs, prefix+"Content Area Summary (School vs State)"); spec != nil {
		add(domain.CategoryTagDiff, spec.Title, spec, nil)
	}
	if spec := tagDiffChartSpec(outcomeAggs, prefix+"Outcome Summary (School vs State)"); spec != nil {
		add(domain.CategoryTagDiff, spec.Title, spec, nil)
	}

	for _, agg := range contentAggs {
		group := analysis.FilterByTag(records, analysis.TagFieldContent, agg.Tag)
		if spec := itemChartSpec(group, prefix+"Content Breakdown: "+agg.Tag); spec != nil {
			add(domain.CategoryBreakdown, spec.Title, spec, nil)
		}
	}
	for _, agg := range outcomeAggs {
		group := analysis.FilterByTag(records, analysis.TagFieldOutcome, agg.Tag)
		if spec := itemChartSpec(group, prefix+"Outcome Breakdown: "+agg.Tag); spec != nil {
			add(domain.CategoryBreakdown, spec.Title, spec, nil)
		}
	}

	p.logger.Debug("planned pages for group",
		slog.String("subject", subject),
		slog.String("year", year),
		slog.Int("pages", len(pages)))

	return pages
}

// OrderPages establishes the final render order: ascending lexicographic
// (subject, year) composite key first, then the category score within
// each group, stable on ties so encounter order survives.
func OrderPages(pages []domain.PageDescriptor) []domain.PageDescriptor {
	ordered := make([]domain.PageDescriptor, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		ki, kj := ordered[i].GroupKey(), ordered[j].GroupKey()
		if ki != kj {
			return ki < kj
		}
		return ordered[i].Category.Score() < ordered[j].Category.Score()
	})
	return ordered
}

func filterKind(records []domain.ItemRecord, kind domain.ItemKind) []domain.ItemRecord {
	var out []domain.ItemRecord
	for _, rec := range records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// itemChartSpec builds the per-item bar+line chart: school mean as bars,
// state mean as a line, labels in natural item order. Returns nil when
// there is nothing to plot.
func itemChartSpec(records []domain.ItemRecord, title string) *domain.ChartSpec {
	if len(records) == 0 {
		return nil
	}
	sorted := analysis.SortRecordsByLabel(records)

	labels := make([]string, len(sorted))
	school := make([]float64, len(sorted))
	state := make([]float64, len(sorted))
	for i, rec := range sorted {
		labels[i] = rec.ItemLabel
		school[i] = rec.SchoolMean
		state[i] = rec.StateMean
	}

	return &domain.ChartSpec{
		Title:  title,
		Labels: labels,
		Series: []domain.ChartSeries{
			{Name: "School Mean", Values: school, Role: domain.RoleBar, Axis: domain.AxisPrimary},
			{Name: "State Mean", Values: state, Role: domain.RoleLine, Axis: domain.AxisPrimary},
		},
	}
}

// diffChartSpec builds the school-minus-state difference chart.
func diffChartSpec(records []domain.ItemRecord, title string) *domain.ChartSpec {
	if len(records) == 0 {
		return nil
	}
	sorted := analysis.SortRecordsByLabel(records)

	labels := make([]string, len(sorted))
	diffs := make([]float64, len(sorted))
	for i, rec := range sorted {
		labels[i] = rec.ItemLabel
		diffs[i] = rec.SchoolMean - rec.StateMean
	}

	return &domain.ChartSpec{
		Title:  title,
		Labels: labels,
		Series: []domain.ChartSeries{
			{Name: "School minus State", Values: diffs, Role: domain.RoleBar, Axis: domain.AxisPrimary},
		},
	}
}

// outlierChartSpec builds the top/bottom performance summary chart with
// success rates per item. Non-finite rates are plotted as zero; the
// detail page carries the honest non-numeric rendering.
func outlierChartSpec(records []domain.ItemRecord, title string) *domain.ChartSpec {
	if len(records) == 0 {
		return nil
	}

	labels := make([]string, len(records))
	rates := make([]float64, len(records))
	for i, rec := range records {
		labels[i] = rec.ItemLabel
		if rate := rec.SuccessRate(); isFinite(rate) {
			rates[i] = rate
		}
	}

	return &domain.ChartSpec{
		Title:       title,
		Labels:      labels,
		ValueSuffix: "%",
		Series: []domain.ChartSeries{
			{Name: "Success Rate", Values: rates, Role: domain.RoleBar, Axis: domain.AxisPrimary},
		},
	}
}

// tagChartSpec builds the tag summary chart: averaged school mean as bars,
// averaged state mean as a line, summed max mark on the secondary axis.
func tagChartSpec(aggregates []analysis.TagAggregate, title string) *domain.ChartSpec {
	if len(aggregates) == 0 {
		return nil
	}

	labels := make([]string, len(aggregates))
	school := make([]float64, len(aggregates))
	state := make([]float64, len(aggregates))
	maxMarks := make([]float64, len(aggregates))
	for i, agg := range aggregates {
		labels[i] = agg.Tag
		school[i] = agg.SchoolMeanAvg
		state[i] = agg.StateMeanAvg
		maxMarks[i] = agg.MaxMarkSum
	}

	return &domain.ChartSpec{
		Title:    title,
		Labels:   labels,
		DualAxis: true,
		Series: []domain.ChartSeries{
			{Name: "School Mean (avg)", Values: school, Role: domain.RoleBar, Axis: domain.AxisPrimary},
			{Name: "State Mean (avg)", Values: state, Role: domain.RoleLine, Axis: domain.AxisPrimary},
			{Name: "Max Mark (sum)", Values: maxMarks, Role: domain.RoleLine, Axis: domain.AxisSecondary},
		},
	}
}

// tagDiffChartSpec builds the tag-level school-vs-state difference chart.
func tagDiffChartSpec(aggregates []analysis.TagAggregate, title string) *domain.ChartSpec {
	if len(aggregates) == 0 {
		return nil
	}

	labels := make([]string, len(aggregates))
	diffs := make([]float64, len(aggregates))
	for i, agg := range aggregates {
		labels[i] = agg.Tag
		diffs[i] = agg.SchoolMeanAvg - agg.StateMeanAvg
	}

	return &domain.ChartSpec{
		Title:  title,
		Labels: labels,
		Series: []domain.ChartSeries{
			{Name: "School minus State (avg)", Values: diffs, Role: domain.RoleBar, Axis: domain.AxisPrimary},
		},
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
