package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hscreport/internal/errors"
	"hscreport/pkg/contracts/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func barSpec() domain.ChartSpec {
	return domain.ChartSpec{
		Title:  "Differences",
		Labels: []string{"1", "2", "3"},
		Series: []domain.ChartSeries{
			{Name: "School minus State", Values: []float64{0.2, -0.1, 0.4}, Role: domain.RoleBar},
		},
	}
}

func mixedSpec() domain.ChartSpec {
	return domain.ChartSpec{
		Title:  "Items",
		Labels: []string{"1", "2", "10"},
		Series: []domain.ChartSeries{
			{Name: "School Mean", Values: []float64{0.6, 0.4, 0.8}, Role: domain.RoleBar},
			{Name: "State Mean", Values: []float64{0.7, 0.5, 0.6}, Role: domain.RoleLine},
		},
	}
}

func TestChartImage_RenderBarChart(t *testing.T) {
	r := NewChartImage(nil)
	png, err := r.RenderChart(context.Background(), barSpec())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestChartImage_RenderMixedChart(t *testing.T) {
	r := NewChartImage(nil)
	png, err := r.RenderChart(context.Background(), mixedSpec())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestChartImage_RenderDualAxis(t *testing.T) {
	spec := domain.ChartSpec{
		Title:    "Content Area Summary",
		Labels:   []string{"Cells", "Genetics"},
		DualAxis: true,
		Series: []domain.ChartSeries{
			{Name: "School Mean (avg)", Values: []float64{0.5, 0.6}, Role: domain.RoleBar},
			{Name: "State Mean (avg)", Values: []float64{0.55, 0.5}, Role: domain.RoleLine},
			{Name: "Max Mark (sum)", Values: []float64{4, 7}, Role: domain.RoleLine, Axis: domain.AxisSecondary},
		},
	}

	r := NewChartImage(nil)
	png, err := r.RenderChart(context.Background(), spec)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestChartImage_EmptySpec(t *testing.T) {
	r := NewChartImage(nil)
	_, err := r.RenderChart(context.Background(), domain.ChartSpec{Title: "empty"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRender))
}

func TestChartImage_MismatchedSeriesLength(t *testing.T) {
	spec := barSpec()
	spec.Series[0].Values = spec.Series[0].Values[:2]

	r := NewChartImage(nil)
	_, err := r.RenderChart(context.Background(), spec)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRender))
}

func TestChartImage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewChartImage(nil)
	_, err := r.RenderChart(ctx, barSpec())
	assert.Error(t, err)
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 60, barWidth(3))
	assert.Equal(t, 6, barWidth(500))
	assert.Equal(t, 40, barWidth(0))
}
