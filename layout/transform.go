package layout

import "seatmap/model"

const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 1.2
)

// Transform maps venue-local coordinates onto the drawing surface:
// surface = world*Zoom + Pan. It is a value; every operation returns a
// new Transform.
type Transform struct {
	Zoom float64
	PanX float64
	PanY float64
}

func Identity() Transform {
	return Transform{Zoom: 1}
}

// SetZoom returns t with the zoom clamped to [MinZoom, MaxZoom].
func (t Transform) SetZoom(zoom float64) Transform {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	t.Zoom = zoom
	return t
}

func (t Transform) ZoomIn() Transform {
	return t.SetZoom(t.scale() * ZoomStep)
}

func (t Transform) ZoomOut() Transform {
	return t.SetZoom(t.scale() / ZoomStep)
}

// Reset restores zoom 1 and clears the pan.
func (t Transform) Reset() Transform {
	return Identity()
}

func (t Transform) PanBy(dx, dy float64) Transform {
	t.PanX += dx
	t.PanY += dy
	return t
}

func (t Transform) Apply(p model.Point) model.Point {
	z := t.scale()
	return model.Point{X: p.X*z + t.PanX, Y: p.Y*z + t.PanY}
}

func (t Transform) Invert(p model.Point) model.Point {
	z := t.scale()
	return model.Point{X: (p.X - t.PanX) / z, Y: (p.Y - t.PanY) / z}
}

func (t Transform) ApplyRect(r Rect) Rect {
	origin := t.Apply(model.Point{X: r.X, Y: r.Y})
	z := t.scale()
	return Rect{X: origin.X, Y: origin.Y, W: r.W * z, H: r.H * z}
}

// Scale converts a world length to a surface length.
func (t Transform) Scale(length float64) float64 {
	return length * t.scale()
}

// scale treats the zero value as identity.
func (t Transform) scale() float64 {
	if t.Zoom == 0 {
		return 1
	}
	return t.Zoom
}
