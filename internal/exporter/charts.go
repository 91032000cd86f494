package exporter

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"basketpulse/internal/dataprocessing"
)

// ErrNotChartable is returned for tables without a bar chart
var ErrNotChartable = errors.New("table has no chart")

// MaxChartBars caps the reorder chart
const MaxChartBars = 20

// Chart size
const (
	ChartWidth  = 10 * vg.Inch
	ChartHeight = 6 * vg.Inch
)

var barColor = color.RGBA{R: 67, G: 160, B: 71, A: 255}

type chartSeries struct {
	title  string
	xLabel string
	yLabel string
	labels []string
	values plotter.Values
}

func seriesFor(d *dataprocessing.Dashboard, name string) (chartSeries, error) {
	var s chartSeries
	add := func(label string, v float64) {
		s.labels = append(s.labels, label)
		s.values = append(s.values, v)
	}

	switch name {
	case dataprocessing.SummaryHourly:
		s = chartSeries{title: "Organic orders by hour of day", xLabel: "hour", yLabel: "order lines"}
		for _, r := range d.Hourly {
			add(strconv.Itoa(r.Hour), float64(r.Count))
		}
	case dataprocessing.SummaryWeekly:
		s = chartSeries{title: "Organic orders by day of week", xLabel: "day", yLabel: "order lines"}
		for _, r := range d.Weekly {
			add(r.Day, float64(r.Count))
		}
	case dataprocessing.SummaryRecency:
		s = chartSeries{title: "Days since prior order", xLabel: "days", yLabel: "order lines"}
		for _, r := range d.Recency {
			add(strconv.Itoa(r.DaysSincePriorOrder), float64(r.Count))
		}
	case dataprocessing.SummaryDepartments:
		s = chartSeries{title: "Organic purchases by department", xLabel: "department", yLabel: "purchases"}
		for _, r := range d.Departments {
			add(r.Department, float64(r.TotalPurchases))
		}
	case dataprocessing.SummaryAisles:
		s = chartSeries{title: "Top aisles", xLabel: "aisle", yLabel: "purchases"}
		for _, r := range d.Aisles {
			add(r.Aisle, float64(r.TotalPurchases))
		}
	case dataprocessing.SummaryReorders:
		s = chartSeries{title: "Reorder rate of top organic products", xLabel: "product", yLabel: "percent reordered"}
		for i, r := range d.Reorders {
			if i == MaxChartBars {
				break
			}
			add(r.ProductName, r.PercentOfReorder)
		}
	case dataprocessing.SummaryOverview:
		return s, fmt.Errorf("%w: %s", ErrNotChartable, name)
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return s, nil
}

// NewChart builds the bar chart for one summary table
func NewChart(d *dataprocessing.Dashboard, name string) (*plot.Plot, error) {
	s, err := seriesFor(d, name)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = s.title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = s.xLabel
	p.Y.Label.Text = s.yLabel
	p.Y.Min = 0

	if len(s.values) == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}

	bars, err := plotter.NewBarChart(s.values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(s.labels...)
	if len(s.labels) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

// WriteChart renders the chart for name as PNG to out
func WriteChart(out io.Writer, d *dataprocessing.Dashboard, name string) error {
	p, err := NewChart(d, name)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err = wt.WriteTo(out)
	return err
}

// SaveChart writes the PNG chart for name to path
func SaveChart(path string, d *dataprocessing.Dashboard, name string) error {
	p, err := NewChart(d, name)
	if err != nil {
		return err
	}
	return p.Save(ChartWidth, ChartHeight, path)
}
