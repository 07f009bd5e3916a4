// Package report renders chain results as a standalone HTML page.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"quadform/internal/chain"
	"quadform/internal/meter"
)

// WriteChart writes one line chart of coefficient bit lengths per result
// and, when rep holds any routines, a bar chart of call counts.
func WriteChart(w io.Writer, title string, results []chain.Result, rep *meter.Report) error {
	page := components.NewPage().SetPageTitle(title)

	for _, res := range results {
		if len(res.Samples) == 0 {
			continue
		}
		page.AddCharts(bitLenChart(title, res))
	}
	if rep != nil && len(rep.Routines) > 0 {
		page.AddCharts(callChart(*rep))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func bitLenChart(title string, res chain.Result) *charts.Line {
	name := title
	if res.Name != "" {
		name = title + ": " + res.Name
	}
	subtitle := fmt.Sprintf("start %s, %d steps", res.Start, res.Steps)
	if res.Resumed > 0 {
		subtitle += fmt.Sprintf(" (resumed at %d)", res.Resumed)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "bits", Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)

	steps := make([]string, len(res.Samples))
	a := make([]opts.LineData, len(res.Samples))
	b := make([]opts.LineData, len(res.Samples))
	c := make([]opts.LineData, len(res.Samples))
	for i, s := range res.Samples {
		steps[i] = strconv.FormatUint(s.Step, 10)
		a[i] = opts.LineData{Value: s.A}
		b[i] = opts.LineData{Value: s.B}
		c[i] = opts.LineData{Value: s.C}
	}
	line.SetXAxis(steps).
		AddSeries("bitlen(a)", a).
		AddSeries("bitlen(b)", b).
		AddSeries("bitlen(c)", c)
	return line
}

func callChart(rep meter.Report) *charts.Bar {
	names := make([]string, len(rep.Routines))
	calls := make([]opts.BarData, len(rep.Routines))
	for i, s := range rep.Routines {
		names[i] = s.Name
		calls[i] = opts.BarData{Value: s.Calls}
	}

	total := rep.Total()
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "routine calls",
			Subtitle: fmt.Sprintf("%d calls, %.3f ms", total.Calls, total.Elapsed.Seconds()*1000),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).AddSeries("calls", calls)
	return bar
}
