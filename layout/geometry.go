package layout

import "seatmap/model"

// Logical surface dimensions the layout is designed for.
const (
	SurfaceWidth  = 800
	SurfaceHeight = 600
)

// Overview grid.
const (
	GridColumns = 3
	CellWidth   = 240
	CellHeight  = 160
	GridOriginX = 20
	GridOriginY = 40
	GridGap     = 20

	PreviewLimit   = 12
	PreviewPerLine = 6
	PreviewRadius  = 5
	PreviewOffsetX = 20
	PreviewOffsetY = 60
	PreviewStep    = 30
)

// Sector detail.
const (
	MinSeatX   = 20
	MaxSeatX   = 780
	MinSeatY   = 60
	MaxSeatY   = 560
	SeatRadius = 10

	LegendX = 620
	LegendY = 10
)

// FallbackPosition is used for seats without coordinates.
var FallbackPosition = model.Point{X: MinSeatX, Y: MinSeatY}

// DetailRegion is the visible area seats are clamped to.
var DetailRegion = Rect{X: MinSeatX, Y: MinSeatY, W: MaxSeatX - MinSeatX, H: MaxSeatY - MinSeatY}

type SectorBox struct {
	SectorId string
	Index    int
	Rect     Rect
}

type Marker struct {
	SeatId    string
	Label     string
	Center    model.Point
	Radius    float64
	Available bool
}

// SectorRect returns the world rectangle of the i-th sector in overview,
// placed row-major in a GridColumns wide grid.
func SectorRect(i int) Rect {
	col := i % GridColumns
	row := i / GridColumns
	return Rect{
		X: GridOriginX + float64(col)*(CellWidth+GridGap),
		Y: GridOriginY + float64(row)*(CellHeight+GridGap),
		W: CellWidth,
		H: CellHeight,
	}
}

func SectorBoxes(v *model.Venue) []SectorBox {
	if v == nil {
		return nil
	}
	boxes := make([]SectorBox, len(v.Sectors))
	for i, sector := range v.Sectors {
		boxes[i] = SectorBox{SectorId: sector.Id, Index: i, Rect: SectorRect(i)}
	}
	return boxes
}

// PreviewMarkers lays out at most PreviewLimit of the sector's seats
// inside its overview rectangle. Preview placement ignores seat
// coordinates.
func PreviewMarkers(sector *model.Sector, box Rect) []Marker {
	n := len(sector.Seats)
	if n > PreviewLimit {
		n = PreviewLimit
	}
	markers := make([]Marker, n)
	for i := 0; i < n; i++ {
		seat := sector.Seats[i]
		markers[i] = Marker{
			SeatId: seat.Id,
			Label:  seat.Label(),
			Center: model.Point{
				X: box.X + PreviewOffsetX + float64(i%PreviewPerLine)*PreviewStep,
				Y: box.Y + PreviewOffsetY + float64(i/PreviewPerLine)*PreviewStep,
			},
			Radius:    PreviewRadius,
			Available: seat.Available,
		}
	}
	return markers
}

// SeatMarkers returns one marker per seat at its clamped position.
func SeatMarkers(sector *model.Sector) []Marker {
	markers := make([]Marker, len(sector.Seats))
	for i, seat := range sector.Seats {
		markers[i] = Marker{
			SeatId:    seat.Id,
			Label:     seat.Label(),
			Center:    ClampSeat(seat.Position),
			Radius:    SeatRadius,
			Available: seat.Available,
		}
	}
	return markers
}

// ClampSeat keeps a seat position inside DetailRegion. A nil position
// maps to FallbackPosition.
func ClampSeat(p *model.Point) model.Point {
	if p == nil {
		return FallbackPosition
	}
	return model.Point{
		X: clamp(p.X, MinSeatX, MaxSeatX),
		Y: clamp(p.Y, MinSeatY, MaxSeatY),
	}
}

func clamp(v, lo, hi float64) float64 {
	// NaN compares false both ways
	if v != v {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
