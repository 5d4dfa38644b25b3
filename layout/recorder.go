package layout

import (
	"fmt"
	"image/color"
	"strings"

	"seatmap/model"
)

// Call is one recorded draw operation.
type Call struct {
	Op      string
	Rect    Rect
	Point   model.Point
	Radius  float64
	Text    string
	Color   color.RGBA
	Opacity float64
}

func (c Call) String() string {
	switch c.Op {
	case "clear":
		return fmt.Sprintf("clear %s", Hex(c.Color))
	case "fill-rect":
		return fmt.Sprintf("fill-rect %s %s %.2f", fmtRect(c.Rect), Hex(c.Color), c.Opacity)
	case "stroke-rect":
		return fmt.Sprintf("stroke-rect %s %s", fmtRect(c.Rect), Hex(c.Color))
	case "circle":
		return fmt.Sprintf("circle (%g,%g) r=%g %s", c.Point.X, c.Point.Y, c.Radius, Hex(c.Color))
	case "text":
		return fmt.Sprintf("text (%g,%g) %q %s", c.Point.X, c.Point.Y, c.Text, Hex(c.Color))
	}
	return c.Op
}

func fmtRect(r Rect) string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.W, r.H)
}

// Recorder is a Surface that keeps the draw calls of the last frame.
type Recorder struct {
	Width  float64
	Height float64
	Calls  []Call
	Closed bool
}

func NewRecorder() *Recorder {
	return &Recorder{Width: SurfaceWidth, Height: SurfaceHeight}
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) Clear(c color.RGBA) {
	r.Calls = r.Calls[:0]
	r.Calls = append(r.Calls, Call{Op: "clear", Color: c})
}

func (r *Recorder) FillRect(rect Rect, c color.RGBA, opacity float64) {
	r.Calls = append(r.Calls, Call{Op: "fill-rect", Rect: rect, Color: c, Opacity: opacity})
}

func (r *Recorder) StrokeRect(rect Rect, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: "stroke-rect", Rect: rect, Color: c})
}

func (r *Recorder) FillCircle(center model.Point, radius float64, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: "circle", Point: center, Radius: radius, Color: c})
}

func (r *Recorder) Text(at model.Point, text string, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: "text", Point: at, Text: text, Color: c})
}

func (r *Recorder) Close() error {
	r.Closed = true
	return nil
}

// Ops returns the recorded calls filtered by operation.
func (r *Recorder) Ops(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot renders the frame as one call per line.
func (r *Recorder) Snapshot() string {
	lines := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}
