package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ivanoskov/splitease/internal/service"
)

const (
	barWidth   = 60
	barSpacing = 40
	minWidth   = 512
	height     = 480
)

// ChartGenerator renders expense summaries as PNG images.
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateBalanceChart draws one bar per group: green when the group owes
// you, red when you owe it. It returns nil when every balance is zero.
func (g *ChartGenerator) GenerateBalanceChart(balances []service.Balance) ([]byte, error) {
	bars := make([]chart.Value, 0, len(balances))
	top := 0.0
	for _, b := range balances {
		v, _ := b.Net.Abs().Float64()
		if v == 0 {
			continue
		}
		color := chart.ColorRed
		if b.Owed() {
			color = chart.ColorGreen
		}
		bars = append(bars, chart.Value{
			Label: b.Group,
			Value: v,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		})
		if v > top {
			top = v
		}
	}
	if len(bars) == 0 {
		return nil, nil
	}

	width := len(bars)*(barWidth+barSpacing) + 200
	if width < minWidth {
		width = minWidth
	}

	graph := chart.BarChart{
		Title:      "Balances",
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render balance chart: %w", err)
	}
	return buf.Bytes(), nil
}
