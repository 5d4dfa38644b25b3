package layout

import (
	"errors"
	"fmt"
	"io"
	"math"

	"seatmap/model"
)

var ErrRendererClosed = errors.New("renderer closed")

// Scene is everything a frame depends on.
type Scene struct {
	Venue     *model.Venue
	Focus     string
	Transform Transform

	// HideLabels suppresses seat labels in sector detail.
	HideLabels bool
	// Highlight outlines the sector (overview) or seat (detail) with this id.
	Highlight string
	// Drag draws one seat at a pending position instead of its stored one.
	Drag *DragPreview
}

type DragPreview struct {
	SeatId   string
	Position model.Point
}

// Renderer owns a surface for the lifetime of a view.
type Renderer struct {
	surface Surface
	closed  bool
}

func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

func (r *Renderer) Surface() Surface {
	return r.surface
}

// Close releases the surface. Rendering after Close fails with
// ErrRendererClosed.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	s := r.surface
	r.surface = nil
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Render draws the overview when focus is empty or names a sector the
// venue does not hold, and the sector detail otherwise.
func (r *Renderer) Render(v *model.Venue, focus string, t Transform) error {
	return r.RenderScene(Scene{Venue: v, Focus: focus, Transform: t})
}

func (r *Renderer) RenderScene(scene Scene) error {
	if r.closed || r.surface == nil {
		return ErrRendererClosed
	}
	s := r.surface
	s.Clear(ColorBackground)
	if scene.Venue == nil {
		s.Text(model.Point{X: GridOriginX, Y: 10}, "No venue loaded.", ColorMuted)
		return nil
	}

	if i := scene.Venue.SectorIndex(scene.Focus); i >= 0 {
		drawDetail(s, &scene.Venue.Sectors[i], i, scene)
		return nil
	}
	drawOverview(s, scene)
	return nil
}

func drawOverview(s Surface, scene Scene) {
	v := scene.Venue
	t := scene.Transform
	s.Text(model.Point{X: GridOriginX, Y: 10}, v.Name, ColorText)
	if len(v.Sectors) == 0 {
		s.Text(model.Point{X: GridOriginX, Y: GridOriginY}, "This venue has no sectors.", ColorMuted)
		return
	}

	for _, box := range SectorBoxes(v) {
		sector := &v.Sectors[box.Index]
		c := SectorColor(sector.Color, box.Index)
		rect := t.ApplyRect(box.Rect)
		s.FillRect(rect, c, SectorFillOpacity)
		if scene.Highlight != "" && scene.Highlight == sector.Id {
			s.StrokeRect(rect, ColorHighlight)
		} else {
			s.StrokeRect(rect, c)
		}

		title := t.Apply(model.Point{X: box.Rect.X + 10, Y: box.Rect.Y + 10})
		s.Text(title, sector.Name, ColorText)
		stats := sector.Stats()
		summary := t.Apply(model.Point{X: box.Rect.X + 10, Y: box.Rect.Y + 30})
		s.Text(summary, fmt.Sprintf("%d/%d free", stats.Available, stats.Total), ColorMuted)

		for _, m := range PreviewMarkers(sector, box.Rect) {
			s.FillCircle(t.Apply(m.Center), t.Scale(m.Radius), SeatColor(m.Available))
		}
		if extra := len(sector.Seats) - PreviewLimit; extra > 0 {
			more := t.Apply(model.Point{X: box.Rect.X + 10, Y: box.Rect.Y + box.Rect.H - 24})
			s.Text(more, fmt.Sprintf("+%d more", extra), ColorMuted)
		}
	}
}

func drawDetail(s Surface, sector *model.Sector, index int, scene Scene) {
	t := scene.Transform
	c := SectorColor(sector.Color, index)

	s.Text(model.Point{X: GridOriginX, Y: 10}, sector.Name, c)
	s.StrokeRect(t.ApplyRect(DetailRegion), c)

	for _, m := range SeatMarkers(sector) {
		center := m.Center
		if scene.Drag != nil && scene.Drag.SeatId == m.SeatId {
			center = ClampSeat(&scene.Drag.Position)
		}
		at := t.Apply(center)
		radius := t.Scale(m.Radius)
		if scene.Highlight != "" && scene.Highlight == m.SeatId {
			s.FillCircle(at, radius+math.Max(2, t.Scale(2)), ColorHighlight)
		}
		s.FillCircle(at, radius, SeatColor(m.Available))
		if !scene.HideLabels {
			s.Text(model.Point{X: at.X - radius, Y: at.Y + radius + 2}, m.Label, ColorText)
		}
	}

	drawLegend(s)
}

// drawLegend uses fixed surface coordinates; it does not follow the view
// transform.
func drawLegend(s Surface) {
	entries := []struct {
		label string
		c     bool
	}{
		{"Available", true},
		{"Unavailable", false},
	}
	for i, e := range entries {
		y := float64(LegendY + i*20)
		s.FillCircle(model.Point{X: LegendX + 6, Y: y + 6}, 6, SeatColor(e.c))
		s.Text(model.Point{X: LegendX + 18, Y: y}, e.label, ColorText)
	}
}

// SectorFillOpacity is applied to sector rectangle fills; strokes are opaque.
const SectorFillOpacity = 0.25
