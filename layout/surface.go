// Package layout draws venue seat maps onto a drawing surface.
//
// Rendering is immediate mode: every call to Renderer.Render clears the
// surface and redraws the whole scene from the venue, focus and
// transform it is given. Geometry helpers are shared with HitTest so
// that a pointer lands on exactly what was drawn.
package layout

import (
	"image/color"

	"seatmap/model"
)

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p lies strictly inside the rectangle.
func (r Rect) Contains(p model.Point) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

func (r Rect) Center() model.Point {
	return model.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Surface is a 2D drawing target. Coordinates are surface units with the
// origin at the top-left corner; Text draws with its top-left at the
// given point.
type Surface interface {
	Size() (w, h float64)
	Clear(c color.RGBA)
	FillRect(r Rect, c color.RGBA, opacity float64)
	StrokeRect(r Rect, c color.RGBA)
	FillCircle(center model.Point, radius float64, c color.RGBA)
	Text(at model.Point, text string, c color.RGBA)
}
