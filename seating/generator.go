// Package seating creates runs of seats for a sector.
package seating

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"seatmap/model"
)

var (
	ErrInvalidRange = errors.New("invalid seat range")
	ErrInvalidLabel = errors.New("invalid row label")
	ErrNoNewSeats   = errors.New("no new seats")
)

type InvalidRangeError struct {
	Start  int
	End    int
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid seat range %d-%d: %s", e.Start, e.End, e.Reason)
	}
	return fmt.Sprintf("invalid seat range %d-%d", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

type InvalidLabelError struct {
	Row string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid row label %q: use 1 to 3 uppercase letters", e.Row)
}

func (e *InvalidLabelError) Unwrap() error { return ErrInvalidLabel }

// NoNewSeatsError reports a range whose seats all exist already.
type NoNewSeatsError struct {
	Row   string
	Start int
	End   int
}

func (e *NoNewSeatsError) Error() string {
	return fmt.Sprintf("row %s seats %d-%d already exist", e.Row, e.Start, e.End)
}

func (e *NoNewSeatsError) Unwrap() error { return ErrNoNewSeats }

// MaxRowSeats bounds a single generation call.
const MaxRowSeats = 1000

// RowRequest describes one horizontal run of seats.
type RowRequest struct {
	Row     string
	Start   int
	End     int
	Spacing float64
	Anchor  model.Point
}

type Result struct {
	Created int
	Seats   []model.Seat
	Skipped []string
}

// IDFunc generates seat identifiers.
type IDFunc func() string

// Generator builds seat rows. The zero value is ready to use and assigns
// random UUIDs to new seats.
type Generator struct {
	NewID IDFunc
}

// GenerateRow runs the default generator.
func GenerateRow(sector *model.Sector, req RowRequest) (Result, error) {
	return Generator{}.GenerateRow(sector, req)
}

// GenerateRow appends the seats of req that the sector does not hold yet.
// Seat i (offset from Start) sits at Anchor + (i*Spacing, 0); skipped
// numbers keep their slot so re-running a partially filled row lines up.
func (g Generator) GenerateRow(sector *model.Sector, req RowRequest) (Result, error) {
	if sector == nil {
		return Result{}, &model.NotFoundError{Kind: "sector"}
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	width := PadWidth(req.End)
	var result Result
	for n := req.Start; n <= req.End; n++ {
		number := FormatNumber(n, width)
		if sector.HasSeat(req.Row, number) {
			result.Skipped = append(result.Skipped, req.Row+number)
			continue
		}
		offset := float64(n - req.Start)
		result.Seats = append(result.Seats, model.Seat{
			Id:       newID(),
			SectorId: sector.Id,
			Row:      req.Row,
			Number:   number,
			Position: &model.Point{
				X: req.Anchor.X + offset*req.Spacing,
				Y: req.Anchor.Y,
			},
			Available: true,
		})
	}

	if len(result.Seats) == 0 {
		return result, &NoNewSeatsError{Row: req.Row, Start: req.Start, End: req.End}
	}

	sector.Seats = append(sector.Seats, result.Seats...)
	result.Created = len(result.Seats)
	return result, nil
}

func (r RowRequest) validate() error {
	if !model.ValidRow(r.Row) {
		return &InvalidLabelError{Row: r.Row}
	}
	if r.Start > r.End {
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "start is greater than end"}
	}
	if r.End-r.Start+1 > MaxRowSeats {
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: fmt.Sprintf("a row holds at most %d seats", MaxRowSeats)}
	}
	if r.Start < 0 {
		return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "seat numbers must not be negative"}
	}
	for _, f := range []float64{r.Spacing, r.Anchor.X, r.Anchor.Y} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &InvalidRangeError{Start: r.Start, End: r.End, Reason: "spacing and anchor must be finite"}
		}
	}
	return nil
}

// PadWidth returns the zero-padding width for seat numbers up to end:
// two digits, widened when end needs more.
func PadWidth(end int) int {
	width := len(strconv.Itoa(end))
	if width < 2 {
		return 2
	}
	return width
}

func FormatNumber(n int, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
