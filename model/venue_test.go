package model

import (
	"errors"
	"math"
	"testing"
)

func pt(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

func testVenue() *Venue {
	return &Venue{
		Id:   "v1",
		Name: "Teatro Municipal",
		Sectors: []Sector{
			{
				Id:    "orchestra",
				Name:  "Orchestra",
				Color: "#3366CC",
				Seats: []Seat{
					{Id: "s1", SectorId: "orchestra", Row: "A", Number: "01", Position: pt(10, 10), Available: true},
					{Id: "s2", SectorId: "orchestra", Row: "A", Number: "02", Position: pt(20, 10), Available: true},
					{Id: "s3", SectorId: "orchestra", Row: "A", Number: "03", Position: pt(30, 10), Available: false},
				},
			},
			{Id: "balcony", Name: "Balcony", Color: "#CC9933"},
		},
	}
}

func TestApplySeatPositions_OverwritesNamedSeats(t *testing.T) {
	v := testVenue()

	result, err := v.ApplySeatPositions("orchestra", []SeatPositionPatch{
		{SeatId: "s2", Position: Point{X: 200, Y: 300}},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Applied != 1 || len(result.Unknown) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	seats := v.Sector("orchestra").Seats
	if got := *seats[1].Position; got != (Point{X: 200, Y: 300}) {
		t.Fatalf("expected s2 at (200,300), got %+v", got)
	}
	if got := *seats[0].Position; got != (Point{X: 10, Y: 10}) {
		t.Fatalf("expected s1 untouched, got %+v", got)
	}
	if got := *seats[2].Position; got != (Point{X: 30, Y: 10}) {
		t.Fatalf("expected s3 untouched, got %+v", got)
	}
}

func TestApplySeatPositions_UnknownSeatIsIgnored(t *testing.T) {
	v := testVenue()

	result, err := v.ApplySeatPositions("orchestra", []SeatPositionPatch{
		{SeatId: "ghost", Position: Point{X: 1, Y: 1}},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Applied != 0 {
		t.Fatalf("expected nothing applied, got %d", result.Applied)
	}
	if len(result.Unknown) != 1 || result.Unknown[0] != "ghost" {
		t.Fatalf("expected ghost reported as unknown, got %+v", result.Unknown)
	}
	for i, seat := range v.Sector("orchestra").Seats {
		want := testVenue().Sectors[0].Seats[i].Position
		if *seat.Position != *want {
			t.Fatalf("seat %s moved: %+v", seat.Id, seat.Position)
		}
	}
}

func TestApplySeatPositions_UnknownSector(t *testing.T) {
	v := testVenue()

	_, err := v.ApplySeatPositions("pit", nil)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "sector" || nf.Id != "pit" {
		t.Fatalf("expected NotFoundError for sector pit, got %#v", err)
	}
}

func TestApplySeatPositions_InvalidPatchLeavesSectorIntact(t *testing.T) {
	v := testVenue()

	_, err := v.ApplySeatPositions("orchestra", []SeatPositionPatch{
		{SeatId: "s1", Position: Point{X: 99, Y: 99}},
		{SeatId: "s2", Position: Point{X: math.NaN(), Y: 0}},
	})
	if !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if got := *v.Sector("orchestra").Seats[0].Position; got != (Point{X: 10, Y: 10}) {
		t.Fatalf("expected s1 untouched after rejected patch set, got %+v", got)
	}
}

func TestApplySeatPositions_SetsMissingPosition(t *testing.T) {
	v := testVenue()
	v.Sectors[0].Seats[0].Position = nil

	if _, err := v.ApplySeatPositions("orchestra", []SeatPositionPatch{{SeatId: "s1", Position: Point{X: 5, Y: 6}}}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if p := v.Sectors[0].Seats[0].Position; p == nil || *p != (Point{X: 5, Y: 6}) {
		t.Fatalf("expected position set, got %+v", p)
	}
}

func TestClone_IsDeep(t *testing.T) {
	v := testVenue()
	c := v.Clone()

	c.Sectors[0].Seats[0].Position.X = 999
	c.Sectors[0].Name = "Changed"
	c.Sectors[0].Seats = append(c.Sectors[0].Seats, Seat{Id: "s4"})

	if v.Sectors[0].Seats[0].Position.X != 10 {
		t.Fatal("clone shares seat positions with the original")
	}
	if v.Sectors[0].Name != "Orchestra" {
		t.Fatal("clone shares sectors with the original")
	}
	if len(v.Sectors[0].Seats) != 3 {
		t.Fatal("clone shares the seat slice with the original")
	}
}

func TestHasSeat_IgnoresPadding(t *testing.T) {
	v := testVenue()
	sector := v.Sector("orchestra")

	cases := []struct {
		row    string
		number string
		want   bool
	}{
		{"A", "01", true},
		{"A", "1", true},
		{"A", "001", true},
		{"A", "04", false},
		{"B", "01", false},
	}
	for _, tc := range cases {
		if got := sector.HasSeat(tc.row, tc.number); got != tc.want {
			t.Errorf("HasSeat(%q, %q) = %v, want %v", tc.row, tc.number, got, tc.want)
		}
	}
}

func TestValidRow(t *testing.T) {
	cases := map[string]bool{
		"A":    true,
		"AB":   true,
		"ABC":  true,
		"":     false,
		"ABCD": false,
		"a":    false,
		"A1":   false,
		"Á":    false,
	}
	for label, want := range cases {
		if got := ValidRow(label); got != want {
			t.Errorf("ValidRow(%q) = %v, want %v", label, got, want)
		}
	}
}

func TestStats(t *testing.T) {
	sector := Sector{Seats: []Seat{
		{Id: "1", Row: "A", Number: "01", Available: true},
		{Id: "2", Row: "A", Number: "02", Available: true},
		{Id: "3", Row: "A", Number: "03", Available: true},
		{Id: "4", Row: "A", Number: "05", Available: false},
		{Id: "5", Row: "B", Number: "07", Available: true},
		{Id: "6", Row: "B", Number: "08", Available: true},
	}}

	stats := sector.Stats()
	if stats.Total != 6 || stats.Available != 5 || stats.Unavailable != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.Pairs != 2 {
		t.Fatalf("expected 2 pairs, got %d", stats.Pairs)
	}
}

func TestValidate(t *testing.T) {
	v := testVenue()
	if err := v.Validate(); err != nil {
		t.Fatalf("expected valid venue, got %v", err)
	}

	v.Sectors[1].Id = "orchestra"
	if err := v.Validate(); !errors.Is(err, ErrDuplicateId) {
		t.Fatalf("expected duplicate sector id, got %v", err)
	}

	v = testVenue()
	v.Sectors[0].Seats[2].Id = "s1"
	if err := v.Validate(); !errors.Is(err, ErrDuplicateId) {
		t.Fatalf("expected duplicate seat id, got %v", err)
	}
}
