package planning

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/clarityfi/clarity/internal/models"
)

// ErrEmptyProjection is returned when the projection series has no value
// range to draw (empty portfolio).
var ErrEmptyProjection = errors.New("projection series has no value range to chart")

// RenderProjectionChart renders the planning hub projection series as a PNG
// line chart: projected portfolio value and cumulative annual dividends over
// the ten-year horizon.
func RenderProjectionChart(data *models.FinancialPlanningHubData) ([]byte, error) {
	points := data.Projections
	if len(points) < 2 {
		return nil, ErrEmptyProjection
	}

	years := make([]float64, len(points))
	values := make([]float64, len(points))
	dividends := make([]float64, len(points))
	maxValue := 0.0
	for i, p := range points {
		years[i] = float64(p.Year)
		values[i] = p.Value
		dividends[i] = p.AnnualDividends
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}
	if maxValue <= 0 {
		return nil, ErrEmptyProjection
	}

	graph := chart.Chart{
		Title:  "Portfolio Projection",
		Width:  900,
		Height: 450,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Year",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		YAxis: chart.YAxis{
			Name: "Value ($)",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "$%.0f")
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Projected Value",
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2.5,
				},
				XValues: years,
				YValues: values,
			},
			chart.ContinuousSeries{
				Name: "Annual Dividends",
				Style: chart.Style{
					StrokeColor:     drawing.ColorGreen,
					StrokeWidth:     2.0,
					StrokeDashArray: []float64{4.0, 3.0},
				},
				XValues: years,
				YValues: dividends,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render projection chart: %w", err)
	}
	return buf.Bytes(), nil
}
