package charts

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData reports that the active filters matched nothing renderable.
var ErrNoData = errors.New("no data available for this selection")

const (
	DefaultWidth  = 1024
	DefaultHeight = 576
)

var (
	barFillColor   = drawing.Color{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
	barStrokeColor = drawing.Color{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}
)

// RenderPNG draws the aggregation as a PNG image.
func RenderPNG(agg Aggregation, width, height int) ([]byte, error) {
	if agg.Type == GraphCasesOverTime {
		return renderTimeSeries(agg, width, height)
	}
	return renderBars(agg, width, height)
}

func renderBars(agg Aggregation, width, height int) ([]byte, error) {
	if len(agg.Buckets) == 0 {
		return nil, ErrNoData
	}

	barStyle := chart.Style{
		FillColor:   barFillColor,
		StrokeColor: barStrokeColor,
		StrokeWidth: 1,
	}

	var maxValue float64
	bars := make([]chart.Value, 0, len(agg.Buckets))
	for _, bucket := range agg.Buckets {
		if bucket.Value > maxValue {
			maxValue = bucket.Value
		}
		bars = append(bars, chart.Value{
			Label: bucket.Label,
			Value: bucket.Value,
			Style: barStyle,
		})
	}

	// An explicit range keeps the renderer from rejecting a degenerate
	// span when every bar has the same value.
	upper := maxValue * 1.1
	if upper <= 0 {
		upper = 1
	}

	barChart := chart.BarChart{
		Title:      agg.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(len(bars), width),
		BarSpacing: 12,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12},
		},
		XAxis: chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  agg.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: upper},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := barChart.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTimeSeries(agg Aggregation, width, height int) ([]byte, error) {
	if len(agg.Series) == 0 {
		return nil, ErrNoData
	}

	series := agg.Series
	if len(series) == 1 {
		// The renderer needs at least two X values. Lead in with an
		// empty month so a lone data point still plots.
		lead := TimePoint{Month: series[0].Month.AddDate(0, -1, 0), Count: 0}
		series = []TimePoint{lead, series[0]}
	}

	var maxCount float64
	times := make([]time.Time, 0, len(series))
	counts := make([]float64, 0, len(series))
	for _, point := range series {
		if point.Count > maxCount {
			maxCount = point.Count
		}
		times = append(times, point.Month)
		counts = append(counts, point.Count)
	}

	lineChart := chart.Chart{
		Title:  agg.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			Name:  agg.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount * 1.1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    string(GraphCasesOverTime),
				XValues: times,
				YValues: counts,
				Style: chart.Style{
					StrokeColor: barStrokeColor,
					StrokeWidth: 2.5,
					DotColor:    barStrokeColor,
					DotWidth:    4,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := lineChart.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render time chart: %w", err)
	}
	return buf.Bytes(), nil
}

// barWidth sizes bars to fill the canvas without crowding out the labels.
func barWidth(count, width int) int {
	if count == 0 {
		return 40
	}
	w := (width - 120) / count
	if w > 80 {
		return 80
	}
	if w < 18 {
		return 18
	}
	return w
}
