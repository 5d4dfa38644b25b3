package selection

import (
	"errors"
	"testing"

	"seatmap/layout"
	"seatmap/model"
)

func testVenue() *model.Venue {
	return &model.Venue{
		Id:   "v1",
		Name: "Arena",
		Sectors: []model.Sector{
			{
				Id:   "s1",
				Name: "Pista",
				Seats: []model.Seat{
					{Id: "a1", SectorId: "s1", Row: "A", Number: "01", Position: &model.Point{X: 100, Y: 100}, Available: true},
					{Id: "a2", SectorId: "s1", Row: "A", Number: "02", Position: &model.Point{X: 200, Y: 100}},
				},
			},
			{Id: "s2", Name: "Camarote"},
		},
	}
}

func TestPointerDownInOverviewFocusesSector(t *testing.T) {
	c := New()
	action, err := c.PointerDown(testVenue(), layout.Identity(), model.Point{X: 300, Y: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != ActionFocusSector || action.SectorId != "s2" {
		t.Fatalf("unexpected action: %+v", action)
	}
	if c.Mode() != SectorDetail || c.Focus() != "s2" {
		t.Fatalf("expected detail for s2, got %s %q", c.Mode(), c.Focus())
	}
}

func TestPointerDownOnNothingIsNoop(t *testing.T) {
	c := New()
	action, err := c.PointerDown(testVenue(), layout.Identity(), model.Point{X: 270, Y: 100})
	if err != nil || action.Kind != ActionNone {
		t.Fatalf("expected no-op, got %+v %v", action, err)
	}
	if c.Mode() != Overview {
		t.Fatalf("expected overview, got %s", c.Mode())
	}
}

func TestDragRepositionsSeat(t *testing.T) {
	v := testVenue()
	c := New()
	c.FocusSector("s1")
	tr := layout.Identity()

	action, err := c.PointerDown(v, tr, model.Point{X: 104, Y: 98})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != ActionBeginDrag || action.SeatId != "a1" {
		t.Fatalf("unexpected action: %+v", action)
	}

	if !c.PointerMove(v, tr, model.Point{X: 154, Y: 148}) {
		t.Fatalf("expected move to change the preview")
	}
	preview, ok := c.Dragging()
	if !ok || preview.SeatId != "a1" || preview.Position != (model.Point{X: 150, Y: 150}) {
		t.Fatalf("unexpected preview: %+v %v", preview, ok)
	}

	up := c.PointerUp(tr, model.Point{X: 164, Y: 158})
	want := Action{Kind: ActionRepositionSeat, SectorId: "s1", SeatId: "a1", Position: model.Point{X: 160, Y: 160}}
	if up != want {
		t.Fatalf("expected %+v, got %+v", want, up)
	}
	if _, ok := c.Dragging(); ok {
		t.Fatalf("drag should end on pointer up")
	}
	if v.Sectors[0].Seats[0].Position.X != 100 {
		t.Fatalf("controller must not mutate the venue")
	}
}

func TestDragUnderZoomUsesWorldCoordinates(t *testing.T) {
	v := testVenue()
	c := New()
	c.FocusSector("s1")
	tr := layout.Identity().SetZoom(2).PanBy(10, 0)

	if _, err := c.PointerDown(v, tr, tr.Apply(model.Point{X: 100, Y: 100})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	up := c.PointerUp(tr, tr.Apply(model.Point{X: 120, Y: 90}))
	if up.Position != (model.Point{X: 120, Y: 90}) {
		t.Fatalf("unexpected position: %+v", up.Position)
	}
}

func TestDragIsClamped(t *testing.T) {
	v := testVenue()
	c := New()
	c.FocusSector("s1")
	tr := layout.Identity()
	c.PointerDown(v, tr, model.Point{X: 100, Y: 100})
	up := c.PointerUp(tr, model.Point{X: 5000, Y: -40})
	if up.Position != (model.Point{X: layout.MaxSeatX, Y: layout.MinSeatY}) {
		t.Fatalf("expected clamped position, got %+v", up.Position)
	}
}

func TestPointerUpWithoutMoveIsNoop(t *testing.T) {
	v := testVenue()
	c := New()
	c.FocusSector("s1")
	tr := layout.Identity()
	c.PointerDown(v, tr, model.Point{X: 100, Y: 100})
	if up := c.PointerUp(tr, model.Point{X: 100, Y: 100}); up.Kind != ActionNone {
		t.Fatalf("expected no action, got %+v", up)
	}
}

func TestBeginDragRejectedInOverview(t *testing.T) {
	c := New()
	if _, err := c.BeginDrag(testVenue(), "a1"); !errors.Is(err, ErrNotInDetail) {
		t.Fatalf("expected ErrNotInDetail, got %v", err)
	}
}

func TestBeginDragUnknownSeat(t *testing.T) {
	c := New()
	c.FocusSector("s1")
	if _, err := c.BeginDrag(testVenue(), "zz"); !model.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClearFocusCancelsDrag(t *testing.T) {
	v := testVenue()
	c := New()
	c.FocusSector("s1")
	c.PointerDown(v, layout.Identity(), model.Point{X: 100, Y: 100})
	c.ClearFocus()
	if _, ok := c.Dragging(); ok {
		t.Fatalf("drag should be cancelled")
	}
	if c.Mode() != Overview || c.Focus() != "" || c.Hovered() != "" {
		t.Fatalf("expected clean overview, got %s %q %q", c.Mode(), c.Focus(), c.Hovered())
	}
	if up := c.PointerUp(layout.Identity(), model.Point{X: 300, Y: 300}); up.Kind != ActionNone {
		t.Fatalf("expected no action after cancel, got %+v", up)
	}
}

func TestHover(t *testing.T) {
	v := testVenue()
	c := New()
	if !c.PointerMove(v, layout.Identity(), model.Point{X: 100, Y: 100}) {
		t.Fatalf("expected hover change")
	}
	if c.Hovered() != "s1" {
		t.Fatalf("expected hover on s1, got %q", c.Hovered())
	}
	if c.PointerMove(v, layout.Identity(), model.Point{X: 110, Y: 100}) {
		t.Fatalf("moving within the same sector should not report a change")
	}

	c.FocusSector("s1")
	if c.Hovered() != "" {
		t.Fatalf("focus should clear hover")
	}
	c.PointerMove(v, layout.Identity(), model.Point{X: 202, Y: 99})
	if c.Hovered() != "a2" {
		t.Fatalf("expected hover on a2, got %q", c.Hovered())
	}
}

func TestFocusEmptyReturnsToOverview(t *testing.T) {
	c := New()
	c.FocusSector("s1")
	c.FocusSector("")
	if c.Mode() != Overview {
		t.Fatalf("expected overview, got %s", c.Mode())
	}
}
