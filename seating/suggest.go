package seating

import "seatmap/model"

// Defaults for a row appended below the existing seats.
const (
	DefaultSpacing = 30
	DefaultRowSize = 10
)

var DefaultAnchor = model.Point{X: 40, Y: 80}

// NextRow returns the label after the last row of the sector in
// A..Z, AA..ZZZ order. An empty sector starts at "A"; after "ZZZ" there
// is no next row and NextRow returns "".
func NextRow(sector *model.Sector) string {
	last := ""
	if sector != nil {
		for _, seat := range sector.Seats {
			if !model.ValidRow(seat.Row) {
				continue
			}
			if len(seat.Row) > len(last) || (len(seat.Row) == len(last) && seat.Row > last) {
				last = seat.Row
			}
		}
	}
	if last == "" {
		return "A"
	}
	next := incrementLabel(last)
	if !model.ValidRow(next) {
		return ""
	}
	return next
}

// Suggest proposes a request for a new row below the lowest placed seat.
func Suggest(sector *model.Sector) RowRequest {
	req := RowRequest{
		Row:     NextRow(sector),
		Start:   1,
		End:     DefaultRowSize,
		Spacing: DefaultSpacing,
		Anchor:  DefaultAnchor,
	}
	if sector == nil {
		return req
	}
	placed := false
	for _, seat := range sector.Seats {
		if seat.Position == nil {
			continue
		}
		if !placed || seat.Position.Y+DefaultSpacing > req.Anchor.Y {
			req.Anchor.Y = seat.Position.Y + DefaultSpacing
		}
		placed = true
	}
	return req
}

func incrementLabel(label string) string {
	b := []byte(label)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 'Z' {
			b[i]++
			return string(b)
		}
		b[i] = 'A'
	}
	return "A" + string(b)
}
