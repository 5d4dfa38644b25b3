package layout

import "seatmap/model"

type HitKind int

const (
	HitNone HitKind = iota
	HitSector
	HitSeat
)

type Hit struct {
	Kind     HitKind
	SectorId string
	SeatId   string
}

// HitTest resolves a surface point against the scene Render would draw
// for the same venue, focus and transform.
func HitTest(v *model.Venue, focus string, t Transform, p model.Point) Hit {
	if v == nil {
		return Hit{}
	}
	if i := v.SectorIndex(focus); i >= 0 {
		return hitSeat(&v.Sectors[i], t, p)
	}
	for _, box := range SectorBoxes(v) {
		if t.ApplyRect(box.Rect).Contains(p) {
			return Hit{Kind: HitSector, SectorId: box.SectorId}
		}
	}
	return Hit{}
}

// hitSeat walks markers back to front so the seat drawn last wins.
func hitSeat(sector *model.Sector, t Transform, p model.Point) Hit {
	markers := SeatMarkers(sector)
	for i := len(markers) - 1; i >= 0; i-- {
		m := markers[i]
		c := t.Apply(m.Center)
		r := t.Scale(m.Radius)
		dx := p.X - c.X
		dy := p.Y - c.Y
		if dx*dx+dy*dy <= r*r {
			return Hit{Kind: HitSeat, SectorId: sector.Id, SeatId: m.SeatId}
		}
	}
	return Hit{}
}
