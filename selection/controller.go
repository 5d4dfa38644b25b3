// Package selection tracks what the pointer is over and turns pointer
// events into editor actions.
package selection

import (
	"errors"

	"seatmap/layout"
	"seatmap/model"
)

var ErrNotInDetail = errors.New("no sector in focus")

type Mode int

const (
	Overview Mode = iota
	SectorDetail
)

func (m Mode) String() string {
	if m == SectorDetail {
		return "detail"
	}
	return "overview"
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionFocusSector
	ActionBeginDrag
	ActionRepositionSeat
)

// Action is what a pointer event asks the session to do. Position is in
// venue-local coordinates.
type Action struct {
	Kind     ActionKind
	SectorId string
	SeatId   string
	Position model.Point
}

type drag struct {
	seatId string
	origin model.Point
	offset model.Point
	pos    model.Point
}

// Controller is the Overview / SectorDetail state machine. The zero value
// is in Overview.
type Controller struct {
	mode   Mode
	sector string

	hoverSector string
	hoverSeat   string
	drag        *drag
}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) Mode() Mode {
	return c.mode
}

// Focus returns the focused sector id, empty in Overview.
func (c *Controller) Focus() string {
	if c.mode != SectorDetail {
		return ""
	}
	return c.sector
}

// FocusSector enters SectorDetail for id. Switching sectors while already
// in detail is allowed. Any hover or drag is dropped.
func (c *Controller) FocusSector(id string) {
	if id == "" {
		c.ClearFocus()
		return
	}
	c.reset()
	c.mode = SectorDetail
	c.sector = id
}

func (c *Controller) ClearFocus() {
	c.reset()
	c.mode = Overview
	c.sector = ""
}

// Hovered returns the sector (Overview) or seat (SectorDetail) under the
// pointer.
func (c *Controller) Hovered() string {
	if c.mode == SectorDetail {
		return c.hoverSeat
	}
	return c.hoverSector
}

// Dragging reports the seat being dragged and its pending position.
func (c *Controller) Dragging() (layout.DragPreview, bool) {
	if c.drag == nil {
		return layout.DragPreview{}, false
	}
	return layout.DragPreview{SeatId: c.drag.seatId, Position: c.drag.pos}, true
}

func (c *Controller) CancelDrag() {
	c.drag = nil
}

// BeginDrag starts moving a seat of the focused sector with the pointer
// at the seat centre.
func (c *Controller) BeginDrag(v *model.Venue, seatId string) (Action, error) {
	if c.mode != SectorDetail {
		return Action{}, ErrNotInDetail
	}
	sector := v.Sector(c.sector)
	if sector == nil {
		return Action{}, &model.NotFoundError{Kind: "sector", Id: c.sector}
	}
	seat := sector.Seat(seatId)
	if seat == nil {
		return Action{}, &model.NotFoundError{Kind: "seat", Id: seatId}
	}
	origin := layout.ClampSeat(seat.Position)
	c.drag = &drag{seatId: seatId, origin: origin, pos: origin}
	c.hoverSeat = seatId
	return Action{Kind: ActionBeginDrag, SectorId: c.sector, SeatId: seatId, Position: origin}, nil
}

// PointerDown handles a press at surface point p.
func (c *Controller) PointerDown(v *model.Venue, t layout.Transform, p model.Point) (Action, error) {
	hit := layout.HitTest(v, c.Focus(), t, p)
	switch {
	case c.mode == Overview && hit.Kind == layout.HitSector:
		c.FocusSector(hit.SectorId)
		return Action{Kind: ActionFocusSector, SectorId: hit.SectorId}, nil
	case c.mode == SectorDetail && hit.Kind == layout.HitSeat:
		action, err := c.BeginDrag(v, hit.SeatId)
		if err != nil {
			return Action{}, err
		}
		world := t.Invert(p)
		c.drag.offset = model.Point{X: c.drag.origin.X - world.X, Y: c.drag.origin.Y - world.Y}
		return action, nil
	}
	return Action{}, nil
}

// PointerMove moves the dragged seat or updates the hover target. It
// reports whether anything visible changed.
func (c *Controller) PointerMove(v *model.Venue, t layout.Transform, p model.Point) bool {
	if c.drag != nil {
		next := c.dragPosition(t, p)
		if next == c.drag.pos {
			return false
		}
		c.drag.pos = next
		return true
	}

	hit := layout.HitTest(v, c.Focus(), t, p)
	if c.mode == SectorDetail {
		changed := c.hoverSeat != hit.SeatId
		c.hoverSeat = hit.SeatId
		return changed
	}
	changed := c.hoverSector != hit.SectorId
	c.hoverSector = hit.SectorId
	return changed
}

// PointerUp ends a drag. It returns ActionRepositionSeat when the seat
// ended somewhere other than where it started.
func (c *Controller) PointerUp(t layout.Transform, p model.Point) Action {
	if c.drag == nil {
		return Action{}
	}
	d := c.drag
	c.drag = nil
	d.pos = c.dragPositionFor(d, t, p)
	if d.pos == d.origin {
		return Action{}
	}
	return Action{Kind: ActionRepositionSeat, SectorId: c.sector, SeatId: d.seatId, Position: d.pos}
}

func (c *Controller) dragPosition(t layout.Transform, p model.Point) model.Point {
	return c.dragPositionFor(c.drag, t, p)
}

func (c *Controller) dragPositionFor(d *drag, t layout.Transform, p model.Point) model.Point {
	world := t.Invert(p)
	return layout.ClampSeat(&model.Point{X: world.X + d.offset.X, Y: world.Y + d.offset.Y})
}

func (c *Controller) reset() {
	c.hoverSector = ""
	c.hoverSeat = ""
	c.drag = nil
}
