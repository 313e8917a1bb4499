package util

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/inventory-sim/reorder/pkg/optimizer/framework"
	"github.com/inventory-sim/reorder/pkg/optimizer/inventory"
)

// CostCurvePoints is the number of samples drawn for the cost curve.
const CostCurvePoints = 1000

// missing is how echarts marks a gap in a series.
const missing = "-"

// ConvergenceChart builds a line chart of the best and mean cost per generation.
func ConvergenceChart(history *framework.ConvergenceHistory, algorithmName string) (*charts.Line, error) {
	if history == nil || history.Len() == 0 {
		return nil, fmt.Errorf("convergence history is empty for %s", algorithmName)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s Convergence", algorithmName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Generation",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "Cost",
			Scale: opts.Bool(true),
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	generations := make([]int, history.Len())
	for i := range generations {
		generations[i] = i + 1
	}

	line.SetXAxis(generations).
		AddSeries("Best cost", lineData(history.Best)).
		AddSeries("Mean cost", lineData(history.Mean)).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	return line, nil
}

// CostCurveChart builds the total cost curve over [max(1, SafetyStock), Capacity]
// with the given solution overlaid as a single marker.
func CostCurveChart(problem *inventory.Problem, bestQuantity float64, algorithmName string) (*charts.Line, error) {
	curve := problem.CostCurve(CostCurvePoints)
	if len(curve) == 0 {
		return nil, fmt.Errorf("cost curve is empty for %s", problem.Name())
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Total Cost Curve for %s", problem.Name()),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Order quantity (Q)",
			Type: "value",
			Min:  curve[0].Quantity,
			Max:  curve[len(curve)-1].Quantity,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "Total cost",
			Scale: opts.Bool(true),
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	points := make([]opts.LineData, len(curve))
	for i, p := range curve {
		points[i] = opts.LineData{Value: []float64{p.Quantity, p.Cost}}
	}
	line.AddSeries("Total cost", points).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	solution := charts.NewScatter()
	solution.AddSeries(fmt.Sprintf("%s solution", algorithmName), []opts.ScatterData{{
		Value:      []float64{bestQuantity, problem.TotalCost(bestQuantity)},
		Symbol:     "circle",
		SymbolSize: 12,
	}})
	line.Overlap(solution)

	return line, nil
}

// PlotConvergence renders the convergence chart to an HTML file.
func PlotConvergence(history *framework.ConvergenceHistory, algorithmName string, outputPath string) error {
	chart, err := ConvergenceChart(history, algorithmName)
	if err != nil {
		return err
	}
	return renderTo(outputPath, chart.Render)
}

// PlotCostCurve renders the cost curve chart to an HTML file.
func PlotCostCurve(problem *inventory.Problem, bestQuantity float64, algorithmName string, outputPath string) error {
	chart, err := CostCurveChart(problem, bestQuantity, algorithmName)
	if err != nil {
		return err
	}
	return renderTo(outputPath, chart.Render)
}

// PlotReport renders both charts on one HTML page.
func PlotReport(problem *inventory.Problem, bestQuantity float64, history *framework.ConvergenceHistory, algorithmName string, outputPath string) error {
	convergence, err := ConvergenceChart(history, algorithmName)
	if err != nil {
		return err
	}
	costCurve, err := CostCurveChart(problem, bestQuantity, algorithmName)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(convergence, costCurve)
	return renderTo(outputPath, page.Render)
}

func renderTo(filename string, render func(w io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return render(f)
}

// lineData converts a series, marking non-finite values as gaps.
func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) || v == math.MaxFloat64 {
			data[i] = opts.LineData{Value: missing}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}
