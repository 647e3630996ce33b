package render

import (
	"bytes"
	"context"
	"log/slog"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"hscreport/internal/errors"
	"hscreport/pkg/contracts/domain"
)

const (
	chartWidth  = 1024
	chartHeight = 560
)

var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorRed,
}

// ChartImage renders declarative chart specifications to PNG via go-chart.
type ChartImage struct {
	logger *slog.Logger
}

// NewChartImage creates a PNG chart renderer.
func NewChartImage(logger *slog.Logger) *ChartImage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartImage{logger: logger}
}

// RenderChart rasterizes a spec. Single bar series render as a bar chart;
// everything else renders as an XY chart with one tick per label.
func (c *ChartImage) RenderChart(ctx context.Context, spec domain.ChartSpec) ([]byte, error) {
	if len(spec.Series) == 0 || len(spec.Labels) == 0 {
		return nil, errors.NewRenderError("chart spec has no data", nil).
			WithContext("title", spec.Title)
	}
	for _, s := range spec.Series {
		if len(s.Values) != len(spec.Labels) {
			return nil, errors.NewRenderError("series length does not match labels", nil).
				WithContext("title", spec.Title).
				WithContext("series", s.Name)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "rendering chart",
		slog.String("title", spec.Title),
		slog.Int("labels", len(spec.Labels)),
		slog.Int("series", len(spec.Series)))

	if len(spec.Series) == 1 && spec.Series[0].Role == domain.RoleBar {
		return c.renderBars(spec)
	}
	return c.renderXY(spec)
}

func (c *ChartImage) renderBars(spec domain.ChartSpec) ([]byte, error) {
	series := spec.Series[0]
	bars := make([]chart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		bars[i] = chart.Value{Label: label, Value: series.Values[i]}
	}

	graph := chart.BarChart{
		Title:  spec.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24},
		},
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
		YAxis: chart.YAxis{
			Name:           series.Name,
			ValueFormatter: suffixFormatter(spec.ValueSuffix),
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.NewRenderError("bar chart render failed", err).
			WithContext("title", spec.Title)
	}
	return buf.Bytes(), nil
}

func (c *ChartImage) renderXY(spec domain.ChartSpec) ([]byte, error) {
	xs := make([]float64, len(spec.Labels))
	ticks := make([]chart.Tick, len(spec.Labels))
	for i, label := range spec.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	var series []chart.Series
	for i, s := range spec.Series {
		cs := chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style:   seriesStyle(s, seriesPalette[i%len(seriesPalette)]),
		}
		if spec.DualAxis && s.Axis == domain.AxisSecondary {
			cs.YAxis = chart.YAxisSecondary
		}
		series = append(series, cs)
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24},
		},
		XAxis: chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			ValueFormatter: suffixFormatter(spec.ValueSuffix),
		},
		Series: series,
	}
	if spec.DualAxis {
		graph.YAxisSecondary = chart.YAxis{
			Style: chart.Style{StrokeColor: chart.ColorAlternateGray},
		}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.NewRenderError("chart render failed", err).
			WithContext("title", spec.Title)
	}
	return buf.Bytes(), nil
}

// seriesStyle maps a series role onto stroke and fill styling. Bar roles
// on an XY chart render as a filled area so the two roles stay visually
// distinct without a second chart type.
func seriesStyle(s domain.ChartSeries, col drawing.Color) chart.Style {
	style := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if s.Role == domain.RoleBar {
		style.FillColor = col.WithAlpha(96)
	}
	return style
}

func barWidth(count int) int {
	if count <= 0 {
		return 40
	}
	width := (chartWidth - 120) / count
	if width > 60 {
		width = 60
	}
	if width < 6 {
		width = 6
	}
	return width
}

func suffixFormatter(suffix string) chart.ValueFormatter {
	if suffix == "" {
		return chart.FloatValueFormatter
	}
	return func(v interface{}) string {
		return chart.FloatValueFormatter(v) + suffix
	}
}
