package model

import "strings"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Venue struct {
	Id      string   `json:"id"`
	Name    string   `json:"name"`
	Sectors []Sector `json:"sectors"`
}

type Sector struct {
	Id      string `json:"id"`
	VenueId string `json:"venueId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Seats   []Seat `json:"seats"`
}

// Seat is a single addressable position within a sector. SectorId is a
// lookup key into the owning venue, not a reference.
type Seat struct {
	Id        string `json:"id"`
	SectorId  string `json:"sectorId"`
	Row       string `json:"row"`
	Number    string `json:"number"`
	Position  *Point `json:"position,omitempty"`
	Available bool   `json:"disponivel"`
}

// Label returns the row followed by the seat number, e.g. "B07".
func (s Seat) Label() string {
	return s.Row + s.Number
}

// Sector returns the sector with the given id, or nil.
func (v *Venue) Sector(id string) *Sector {
	if i := v.SectorIndex(id); i >= 0 {
		return &v.Sectors[i]
	}
	return nil
}

// SectorIndex returns the display position of a sector, or -1.
func (v *Venue) SectorIndex(id string) int {
	if v == nil || id == "" {
		return -1
	}
	for i := range v.Sectors {
		if v.Sectors[i].Id == id {
			return i
		}
	}
	return -1
}

func (s *Sector) Seat(id string) *Seat {
	if s == nil || id == "" {
		return nil
	}
	for i := range s.Seats {
		if s.Seats[i].Id == id {
			return &s.Seats[i]
		}
	}
	return nil
}

// HasSeat reports whether the sector already holds the given row/number
// pair. Numbers are compared numerically when both sides are integers so
// that "1", "01" and "001" are the same seat.
func (s *Sector) HasSeat(row string, number string) bool {
	if s == nil {
		return false
	}
	for _, seat := range s.Seats {
		if seat.Row != row {
			continue
		}
		if SameSeatNumber(seat.Number, number) {
			return true
		}
	}
	return false
}

// SameSeatNumber compares two seat numbers, ignoring zero padding.
func SameSeatNumber(a string, b string) bool {
	na, okA := parseSeatNumber(a)
	nb, okB := parseSeatNumber(b)
	if okA && okB {
		return na == nb
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidRow reports whether label is one to three uppercase ASCII letters.
func ValidRow(label string) bool {
	if len(label) < 1 || len(label) > 3 {
		return false
	}
	for i := 0; i < len(label); i++ {
		if label[i] < 'A' || label[i] > 'Z' {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the venue.
func (v *Venue) Clone() *Venue {
	if v == nil {
		return nil
	}
	out := &Venue{
		Id:      v.Id,
		Name:    v.Name,
		Sectors: make([]Sector, len(v.Sectors)),
	}
	for i, sector := range v.Sectors {
		out.Sectors[i] = sector.clone()
	}
	return out
}

func (s Sector) clone() Sector {
	seats := make([]Seat, len(s.Seats))
	for i, seat := range s.Seats {
		if seat.Position != nil {
			p := *seat.Position
			seat.Position = &p
		}
		seats[i] = seat
	}
	s.Seats = seats
	return s
}

func parseSeatNumber(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > 9 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
