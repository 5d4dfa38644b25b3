package seating

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"seatmap/model"
)

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("seat-%d", n)
	}
}

func TestGenerateRow_EmptySector(t *testing.T) {
	sector := &model.Sector{Id: "orchestra"}
	gen := Generator{NewID: sequentialIDs()}

	result, err := gen.GenerateRow(sector, RowRequest{
		Row:     "B",
		Start:   1,
		End:     5,
		Spacing: 10,
		Anchor:  model.Point{X: 50, Y: 50},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Created != 5 || len(sector.Seats) != 5 {
		t.Fatalf("expected 5 seats, got created=%d seats=%d", result.Created, len(sector.Seats))
	}

	wantLabels := []string{"B01", "B02", "B03", "B04", "B05"}
	wantX := []float64{50, 60, 70, 80, 90}
	for i, seat := range sector.Seats {
		if seat.Label() != wantLabels[i] {
			t.Errorf("seat %d: expected label %s, got %s", i, wantLabels[i], seat.Label())
		}
		if seat.Position == nil || seat.Position.X != wantX[i] || seat.Position.Y != 50 {
			t.Errorf("seat %d: expected (%v,50), got %+v", i, wantX[i], seat.Position)
		}
		if seat.SectorId != "orchestra" {
			t.Errorf("seat %d: expected sector back-reference, got %q", i, seat.SectorId)
		}
		if !seat.Available {
			t.Errorf("seat %d: expected new seat to be available", i)
		}
		if seat.Id != fmt.Sprintf("seat-%d", i+1) {
			t.Errorf("seat %d: unexpected id %q", i, seat.Id)
		}
	}
}

func TestGenerateRow_RerunYieldsNoNewSeats(t *testing.T) {
	sector := &model.Sector{Id: "orchestra"}
	req := RowRequest{Row: "B", Start: 1, End: 5, Spacing: 10, Anchor: model.Point{X: 50, Y: 50}}

	if _, err := GenerateRow(sector, req); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	before := len(sector.Seats)

	result, err := GenerateRow(sector, req)
	if !errors.Is(err, ErrNoNewSeats) {
		t.Fatalf("expected ErrNoNewSeats, got %v", err)
	}
	if result.Created != 0 || len(result.Skipped) != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(sector.Seats) != before {
		t.Fatalf("expected sector untouched, got %d seats", len(sector.Seats))
	}
}

func TestGenerateRow_SkipsExistingNumbers(t *testing.T) {
	sector := &model.Sector{Id: "orchestra", Seats: []model.Seat{
		{Id: "x", Row: "C", Number: "02"},
		{Id: "y", Row: "C", Number: "4"},
		{Id: "z", Row: "D", Number: "03"},
	}}

	result, err := GenerateRow(sector, RowRequest{Row: "C", Start: 1, End: 5, Spacing: 20})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Created != 3 {
		t.Fatalf("expected 3 new seats, got %d", result.Created)
	}
	if len(result.Skipped) != 2 || result.Skipped[0] != "C02" || result.Skipped[1] != "C04" {
		t.Fatalf("unexpected skipped list: %v", result.Skipped)
	}

	// skipped numbers keep their slot
	added := sector.Seats[3:]
	wantX := map[string]float64{"01": 0, "03": 40, "05": 80}
	for _, seat := range added {
		if seat.Position.X != wantX[seat.Number] {
			t.Errorf("seat %s: expected x=%v, got %v", seat.Label(), wantX[seat.Number], seat.Position.X)
		}
	}
}

func TestGenerateRow_CountProperty(t *testing.T) {
	cases := []struct {
		start, end int
		existing   []string
	}{
		{1, 1, nil},
		{1, 10, []string{"03", "07"}},
		{5, 12, []string{"01", "05", "12", "13"}},
		{1, 3, []string{"01", "02", "03"}},
	}
	for _, tc := range cases {
		sector := &model.Sector{Id: "s"}
		overlap := 0
		for i, number := range tc.existing {
			sector.Seats = append(sector.Seats, model.Seat{Id: fmt.Sprintf("e%d", i), Row: "AA", Number: number})
			var n int
			fmt.Sscanf(number, "%d", &n)
			if n >= tc.start && n <= tc.end {
				overlap++
			}
		}
		want := tc.end - tc.start + 1 - overlap

		result, err := GenerateRow(sector, RowRequest{Row: "AA", Start: tc.start, End: tc.end, Spacing: 1})
		if want == 0 {
			if !errors.Is(err, ErrNoNewSeats) {
				t.Errorf("%d-%d: expected ErrNoNewSeats, got %v", tc.start, tc.end, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d-%d: unexpected error %v", tc.start, tc.end, err)
			continue
		}
		if result.Created != want {
			t.Errorf("%d-%d: expected %d seats, got %d", tc.start, tc.end, want, result.Created)
		}
		labels := map[string]bool{}
		for _, seat := range sector.Seats {
			var n int
			fmt.Sscanf(seat.Number, "%d", &n)
			key := fmt.Sprintf("%s/%d", seat.Row, n)
			if labels[key] {
				t.Errorf("%d-%d: duplicate seat %s", tc.start, tc.end, key)
			}
			labels[key] = true
		}
	}
}

func TestGenerateRow_WidensPadding(t *testing.T) {
	sector := &model.Sector{Id: "s"}

	if _, err := GenerateRow(sector, RowRequest{Row: "A", Start: 98, End: 101, Spacing: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got := []string{}
	for _, seat := range sector.Seats {
		got = append(got, seat.Number)
	}
	want := []string{"098", "099", "100", "101"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	// "B01" from a two-digit run collides with "001" of a wider run
	sector = &model.Sector{Id: "s", Seats: []model.Seat{{Id: "e", Row: "B", Number: "01"}}}
	result, err := GenerateRow(sector, RowRequest{Row: "B", Start: 1, End: 100, Spacing: 1})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Created != 99 {
		t.Fatalf("expected 99 new seats, got %d", result.Created)
	}
}

func TestGenerateRow_Validation(t *testing.T) {
	cases := []struct {
		name string
		req  RowRequest
		want error
	}{
		{"start after end", RowRequest{Row: "A", Start: 5, End: 1}, ErrInvalidRange},
		{"negative start", RowRequest{Row: "A", Start: -1, End: 1}, ErrInvalidRange},
		{"too many seats", RowRequest{Row: "A", Start: 1, End: MaxRowSeats + 1}, ErrInvalidRange},
		{"nan spacing", RowRequest{Row: "A", Start: 1, End: 2, Spacing: math.NaN()}, ErrInvalidRange},
		{"empty label", RowRequest{Row: "", Start: 1, End: 2}, ErrInvalidLabel},
		{"lowercase label", RowRequest{Row: "b", Start: 1, End: 2}, ErrInvalidLabel},
		{"long label", RowRequest{Row: "ABCD", Start: 1, End: 2}, ErrInvalidLabel},
		{"digit label", RowRequest{Row: "A1", Start: 1, End: 2}, ErrInvalidLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sector := &model.Sector{Id: "s"}
			_, err := GenerateRow(sector, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(sector.Seats) != 0 {
				t.Fatalf("expected no seats after rejected request, got %d", len(sector.Seats))
			}
		})
	}
}

func TestGenerateRow_NilSector(t *testing.T) {
	_, err := GenerateRow(nil, RowRequest{Row: "A", Start: 1, End: 1})
	if !model.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPadWidth(t *testing.T) {
	cases := map[int]int{0: 2, 5: 2, 99: 2, 100: 3, 999: 3, 1000: 4}
	for end, want := range cases {
		if got := PadWidth(end); got != want {
			t.Errorf("PadWidth(%d) = %d, want %d", end, got, want)
		}
	}
}

func TestNextRow(t *testing.T) {
	cases := []struct {
		rows []string
		want string
	}{
		{nil, "A"},
		{[]string{"A", "C", "B"}, "D"},
		{[]string{"Z"}, "AA"},
		{[]string{"Y", "AZ"}, "BA"},
		{[]string{"bad", "1"}, "A"},
		{[]string{"ZZ"}, "AAA"},
		{[]string{"ZZY"}, "ZZZ"},
		{[]string{"A", "ZZZ"}, ""},
	}
	for _, tc := range cases {
		sector := &model.Sector{Id: "s"}
		for _, row := range tc.rows {
			sector.Seats = append(sector.Seats, model.Seat{Row: row, Number: "01"})
		}
		if got := NextRow(sector); got != tc.want {
			t.Fatalf("rows %v: expected %q, got %q", tc.rows, tc.want, got)
		}
	}
}

func TestSuggest_BelowLowestSeat(t *testing.T) {
	sector := &model.Sector{Id: "s", Seats: []model.Seat{
		{Row: "A", Number: "01", Position: &model.Point{X: 40, Y: 100}},
		{Row: "B", Number: "01", Position: &model.Point{X: 40, Y: 140}},
		{Row: "B", Number: "02"},
	}}

	req := Suggest(sector)
	if req.Row != "C" || req.Start != 1 || req.End != DefaultRowSize {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Anchor.X != DefaultAnchor.X || req.Anchor.Y != 170 {
		t.Fatalf("expected anchor below row B, got %+v", req.Anchor)
	}

	if _, err := GenerateRow(sector, req); err != nil {
		t.Fatalf("expected suggested request to be valid, got %v", err)
	}
	if empty := Suggest(&model.Sector{}); empty.Anchor != DefaultAnchor || empty.Row != "A" {
		t.Fatalf("unexpected suggestion for empty sector: %+v", empty)
	}
}

func TestSuggest_RowsExhausted(t *testing.T) {
	sector := &model.Sector{Id: "s", Seats: []model.Seat{
		{Row: "ZZZ", Number: "01", Position: &model.Point{X: 40, Y: 100}},
	}}
	req := Suggest(sector)
	if req.Row != "" {
		t.Fatalf("expected no row suggestion, got %q", req.Row)
	}
	if _, err := GenerateRow(sector, req); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
}
