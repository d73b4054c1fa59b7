// Package geom lays out the overlay: where the dial, the hand, the delta
// graph and the text go for a given snapshot. It does no drawing.
package geom

import (
	"fmt"
	"math"

	"github.com/erinpentecost/timingtest"
)

const (
	// GraphHeight is the height of the delta graph in pixels.
	GraphHeight = 60.0
	// DialRadius is the radius of the reference dial.
	DialRadius = 50.0
	// CharWidth and LineHeight match ebitenutil's debug font.
	CharWidth  = 6
	LineHeight = 16
)

// Point is a position in screen pixels, y pointing down.
type Point struct {
	X, Y float64
}

// Segment is a line between two points.
type Segment struct {
	From, To Point
}

// Label is a line of text placed by its top-left corner.
type Label struct {
	Text string
	X, Y int
}

// Layout positions overlay elements on a Width x Height screen.
type Layout struct {
	Width, Height int
}

// DialCenter is the pivot of the reference hand.
func (l Layout) DialCenter() Point {
	return Point{X: float64(l.Width / 2), Y: float64(l.Height/2 - 40)}
}

// HandEnd is the tip of the hand at the given angle. 0 points up and the
// angle grows clockwise.
func (l Layout) HandEnd(degrees float64) Point {
	c := l.DialCenter()
	rad := degrees * math.Pi / 180
	return Point{
		X: c.X + DialRadius*math.Sin(rad),
		Y: c.Y - DialRadius*math.Cos(rad),
	}
}

// GraphTop is the y of the top edge of the delta graph.
func (l Layout) GraphTop() int {
	return l.Height - int(GraphHeight)
}

// GraphSegments joins consecutive history samples, oldest on the left,
// scaled so highest reaches the top of the graph. With no highest yet
// every sample sits on the bottom edge.
func (l Layout) GraphSegments(history []float64, highest float64) []Segment {
	if len(history) < 2 {
		return nil
	}
	step := float64(l.Width) / float64(len(history))
	bottom := float64(l.Height)
	y := func(v float64) float64 {
		if highest <= 0 {
			return bottom
		}
		return bottom - v/highest*GraphHeight
	}
	segments := make([]Segment, 0, len(history)-1)
	for i := 0; i+1 < len(history); i++ {
		segments = append(segments, Segment{
			From: Point{X: float64(i) * step, Y: y(history[i])},
			To:   Point{X: float64(i+1) * step, Y: y(history[i+1])},
		})
	}
	return segments
}

// Labels returns the text for a snapshot.
func (l Layout) Labels(s timingtest.Snapshot) []Label {
	c := l.DialCenter()
	graphTop := l.GraphTop()
	right := func(text string) int {
		return l.Width - 1 - len([]rune(text))*CharWidth
	}

	secs := fmt.Sprintf("Secs: %5.2f", s.Elapsed)
	delta := fmt.Sprintf("Delta: %0.4f", s.Last)
	return []Label{
		{Text: fmt.Sprintf("Ticks: %-6d", s.Ticks), X: 1, Y: 1},
		{Text: fmt.Sprintf("Draws: %-6d", s.Renders), X: 1, Y: 1 + LineHeight},
		{Text: secs, X: right(secs), Y: 1},
		{Text: fmt.Sprintf("Highest: %0.4f", s.Highest), X: 1, Y: graphTop - 4 - LineHeight},
		{Text: delta, X: right(delta), Y: graphTop - 4 - LineHeight},
		{Text: fmt.Sprintf("%0.4f", s.Budget), X: int(c.X) + 54, Y: int(c.Y) - 1 - LineHeight},
		{Text: fmt.Sprintf("%3.0f deg", s.Degrees), X: int(c.X) + 54, Y: int(c.Y) + 1},
	}
}
