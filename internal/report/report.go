package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/yyyoichi/wavstego/internal/analysis"
)

// DiffChart renders where a carrier was modified as a bar chart, one bar per segment.
type DiffChart struct {
	Title   string
	Buckets int
	// BytesPerSecond labels segments by playback time when positive,
	// otherwise by byte offset.
	BytesPerSecond int
}

// Render writes the chart for d as a standalone HTML page.
func (c DiffChart) Render(w io.Writer, d analysis.Diff) error {
	buckets := c.Buckets
	if buckets < 1 {
		buckets = 50
	}
	counts := d.Histogram(buckets)

	xAxisData := make([]string, len(counts))
	barData := make([]opts.BarData, len(counts))
	for i, n := range counts {
		start := i * d.Length / buckets
		xAxisData[i] = c.label(start)
		barData[i] = opts.BarData{
			Value: n,
			Name:  fmt.Sprintf("%s: %d modified bytes", xAxisData[i], n),
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: fmt.Sprintf("%d of %d sample bytes modified, LSB only: %t", len(d.Changed), d.Length, d.LSBOnly),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: c.axisName(),
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Modified bytes",
			Type: "value",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)
	bar.SetXAxis(xAxisData).
		AddSeries("Modified bytes", barData)
	return bar.Render(w)
}

func (c DiffChart) label(offset int) string {
	if c.BytesPerSecond > 0 {
		return fmt.Sprintf("%.2fs", float64(offset)/float64(c.BytesPerSecond))
	}
	return fmt.Sprintf("%d", offset)
}

func (c DiffChart) axisName() string {
	if c.BytesPerSecond > 0 {
		return "Time"
	}
	return "Byte offset"
}
