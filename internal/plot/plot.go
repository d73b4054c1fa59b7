// Package plot renders the delta history of a snapshot as a PNG chart,
// the offline counterpart of the overlay's red graph.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/erinpentecost/timingtest"
)

// Size of the chart in pixels.
const (
	Width  = 960
	Height = 360
)

// minRange keeps the y axis usable before any delta has been recorded.
const minRange = 1.0

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

// Chart builds the chart for a snapshot. Deltas are in milliseconds,
// x is the sample index, oldest on the left.
func Chart(s timingtest.Snapshot) chart.Chart {
	xs := make([]float64, len(s.History))
	ys := make([]float64, len(s.History))
	for i, v := range s.History {
		xs[i] = float64(i)
		ys[i] = v * 1000
	}
	highest := s.Highest * 1000
	top := math.Max(highest, minRange)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "delta",
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.ColorRed),
		},
		chart.ContinuousSeries{
			Name:    "highest",
			XValues: []float64{0, float64(len(s.History) - 1)},
			YValues: []float64{highest, highest},
			Style:   lineStyle(chart.ColorAlternateGray),
		},
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Tick delta (%d ticks, %d draws, %.2fs)", s.Ticks, s.Renders, s.Elapsed),
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "sample", Range: &chart.ContinuousRange{Min: 0, Max: float64(len(s.History) - 1)}},
		YAxis:      chart.YAxis{Name: "ms", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// Render writes the PNG for a snapshot to w.
func Render(s timingtest.Snapshot, w io.Writer) error {
	ch := Chart(s)
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render delta chart: %w", err)
	}
	return nil
}

// WriteFile renders the PNG for a snapshot to path.
func WriteFile(s timingtest.Snapshot, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Render(s, f)
}
