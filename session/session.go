// Package session owns one view/edit session over a venue: the detached
// venue copy, the view transform, the selection state and the edits that
// have not been confirmed yet.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"seatmap/layout"
	"seatmap/model"
	"seatmap/seating"
	"seatmap/selection"
)

var ErrNoVenue = errors.New("no venue loaded")

// Committer persists confirmed edits with the collaborator that owns the
// venue.
type Committer interface {
	Commit(ctx context.Context, changes model.ChangeSet) error
}

// Ack is the result of ConfirmEdits. Saved is the number of seats the
// confirmed changes touch; zero means there was nothing to save.
type Ack struct {
	Saved   int
	VenueId string
	Created []model.Seat
	Patches []model.SectorPatch
}

func (a Ack) ChangeSet() model.ChangeSet {
	return model.ChangeSet{VenueId: a.VenueId, Created: a.Created, Patches: a.Patches}
}

// Unsent returns the part of a that err reports as not committed. An error
// that is not a *model.CommitError leaves the whole Ack unsent.
func (a Ack) Unsent(err error) Ack {
	var partial *model.CommitError
	if !errors.As(err, &partial) {
		return a
	}
	rest := partial.Remaining
	return Ack{
		Saved:   rest.Count(),
		VenueId: a.VenueId,
		Created: rest.Created,
		Patches: rest.Patches,
	}
}

type pendingKey struct {
	sectorId string
	seatId   string
}

type Session struct {
	log      *slog.Logger
	gen      seating.Generator
	renderer *layout.Renderer
	sel      *selection.Controller

	venue      *model.Venue
	view       layout.Transform
	hideLabels bool

	pending map[pendingKey]model.Point
	order   []pendingKey
	created []pendingKey
}

type Option func(*Session)

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithGenerator replaces the seat generator, e.g. to get stable ids.
func WithGenerator(g seating.Generator) Option {
	return func(s *Session) {
		s.gen = g
	}
}

func New(surface layout.Surface, opts ...Option) *Session {
	s := &Session{
		log:      slog.Default(),
		renderer: layout.NewRenderer(surface),
		sel:      selection.New(),
		view:     layout.Identity(),
		pending:  map[pendingKey]model.Point{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Venue returns the session's working copy. Callers must not modify it.
func (s *Session) Venue() *model.Venue {
	return s.venue
}

func (s *Session) Mode() selection.Mode {
	return s.sel.Mode()
}

func (s *Session) Focus() string {
	return s.sel.Focus()
}

// FocusedSector returns the sector in detail, or nil in overview.
func (s *Session) FocusedSector() *model.Sector {
	return s.venue.Sector(s.sel.Focus())
}

func (s *Session) View() layout.Transform {
	return s.view
}

func (s *Session) Hovered() string {
	return s.sel.Hovered()
}

func (s *Session) Dragging() bool {
	_, ok := s.sel.Dragging()
	return ok
}

func (s *Session) LabelsHidden() bool {
	return s.hideLabels
}

// Pending is the number of unconfirmed edits: generated seats plus moved
// seats.
func (s *Session) Pending() int {
	return len(s.order) + len(s.created)
}

// SetVenue replaces the venue with a copy of v. Unconfirmed position
// edits are re-applied to the new copy; edits naming seats or sectors
// that no longer exist are dropped. A focus on a vanished sector returns
// the view to the overview.
func (s *Session) SetVenue(v *model.Venue) error {
	carried := s.createdSeats()
	s.venue = v.Clone()
	s.sel.CancelDrag()
	if focus := s.sel.Focus(); focus != "" && s.venue.Sector(focus) == nil {
		s.log.Info("focused sector no longer exists", slog.String("sector_id", focus))
		s.sel.ClearFocus()
		s.view = layout.Identity()
	}
	s.reapplyPending(carried)
	return s.Render()
}

func (s *Session) FocusSector(id string) error {
	if s.venue == nil {
		return ErrNoVenue
	}
	if s.venue.Sector(id) == nil {
		return &model.NotFoundError{Kind: "sector", Id: id}
	}
	s.sel.FocusSector(id)
	s.view = layout.Identity()
	return s.Render()
}

func (s *Session) ClearFocus() error {
	s.sel.ClearFocus()
	s.view = layout.Identity()
	return s.Render()
}

// CycleSector moves the focus step sectors forward in display order,
// wrapping around. From the overview it focuses the first sector.
func (s *Session) CycleSector(step int) error {
	if s.venue == nil || len(s.venue.Sectors) == 0 {
		return ErrNoVenue
	}
	n := len(s.venue.Sectors)
	next := 0
	if i := s.venue.SectorIndex(s.sel.Focus()); i >= 0 {
		next = ((i+step)%n + n) % n
	}
	return s.FocusSector(s.venue.Sectors[next].Id)
}

func (s *Session) ZoomIn() error {
	s.view = s.view.ZoomIn()
	return s.Render()
}

func (s *Session) ZoomOut() error {
	s.view = s.view.ZoomOut()
	return s.Render()
}

func (s *Session) ResetView() error {
	s.view = s.view.Reset()
	return s.Render()
}

// Pan shifts the view by a surface-space delta.
func (s *Session) Pan(dx, dy float64) error {
	s.view = s.view.PanBy(dx, dy)
	return s.Render()
}

func (s *Session) ToggleLabels() error {
	s.hideLabels = !s.hideLabels
	return s.Render()
}

func (s *Session) PointerDown(p model.Point) error {
	if s.venue == nil {
		return nil
	}
	action, err := s.sel.PointerDown(s.venue, s.view, p)
	if err != nil {
		return err
	}
	switch action.Kind {
	case selection.ActionFocusSector:
		s.view = layout.Identity()
		s.log.Debug("sector focused", slog.String("sector_id", action.SectorId))
	case selection.ActionNone:
		return nil
	}
	return s.Render()
}

func (s *Session) PointerMove(p model.Point) error {
	if s.venue == nil {
		return nil
	}
	if !s.sel.PointerMove(s.venue, s.view, p) {
		return nil
	}
	return s.Render()
}

// PointerUp finishes a drag and moves the seat in the working copy.
func (s *Session) PointerUp(p model.Point) error {
	if s.venue == nil {
		return nil
	}
	action := s.sel.PointerUp(s.view, p)
	if action.Kind != selection.ActionRepositionSeat {
		return s.Render()
	}
	if err := s.reposition(action.SectorId, action.SeatId, action.Position); err != nil {
		_ = s.Render()
		return err
	}
	return s.Render()
}

// GenerateRow runs the seat generator on the focused sector.
func (s *Session) GenerateRow(req seating.RowRequest) (seating.Result, error) {
	if s.venue == nil {
		return seating.Result{}, ErrNoVenue
	}
	sector := s.FocusedSector()
	if sector == nil {
		return seating.Result{}, selection.ErrNotInDetail
	}
	result, err := s.gen.GenerateRow(sector, req)
	if err != nil {
		return result, err
	}
	for _, seat := range result.Seats {
		s.created = append(s.created, pendingKey{sectorId: sector.Id, seatId: seat.Id})
	}
	s.log.Info("seats generated",
		slog.String("sector_id", sector.Id),
		slog.String("row", req.Row),
		slog.Int("created", result.Created),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, s.Render()
}

// ConfirmEdits hands out the unconfirmed edits and clears them. An Ack
// with Saved == 0 means there was nothing to save.
func (s *Session) ConfirmEdits() Ack {
	if s.venue == nil || s.Pending() == 0 {
		return Ack{}
	}
	ack := Ack{VenueId: s.venue.Id}

	isNew := make(map[string]bool, len(s.created))
	for _, seat := range s.createdSeats() {
		isNew[seat.Id] = true
		ack.Created = append(ack.Created, seat)
	}

	bySector := map[string]int{}
	for _, key := range s.order {
		if isNew[key.seatId] {
			continue
		}
		i, ok := bySector[key.sectorId]
		if !ok {
			i = len(ack.Patches)
			bySector[key.sectorId] = i
			ack.Patches = append(ack.Patches, model.SectorPatch{SectorId: key.sectorId})
		}
		ack.Patches[i].Patches = append(ack.Patches[i].Patches, model.SeatPositionPatch{
			SeatId:   key.seatId,
			Position: s.pending[key],
		})
	}

	ack.Saved = ack.ChangeSet().Count()
	s.clearPending()
	s.log.Info("edits confirmed", slog.String("venue_id", ack.VenueId), slog.Int("saved", ack.Saved))
	return ack
}

// Restore puts the edits of an Ack that could not be committed back into
// the pending set. Edits made since ConfirmEdits win over restored ones.
func (s *Session) Restore(ack Ack) {
	for _, seat := range ack.Created {
		key := pendingKey{sectorId: seat.SectorId, seatId: seat.Id}
		if !slices.Contains(s.created, key) {
			s.created = append(s.created, key)
		}
	}
	for _, patch := range ack.Patches {
		for _, p := range patch.Patches {
			key := pendingKey{sectorId: patch.SectorId, seatId: p.SeatId}
			if _, ok := s.pending[key]; ok {
				continue
			}
			s.pending[key] = p.Position
			s.order = append(s.order, key)
		}
	}
}

// Render redraws the current scene.
func (s *Session) Render() error {
	scene := layout.Scene{
		Venue:      s.venue,
		Focus:      s.sel.Focus(),
		Transform:  s.view,
		HideLabels: s.hideLabels,
		Highlight:  s.sel.Hovered(),
	}
	if drag, ok := s.sel.Dragging(); ok {
		scene.Drag = &drag
	}
	return s.renderer.RenderScene(scene)
}

// Close releases the renderer. The session cannot render afterwards.
func (s *Session) Close() error {
	s.sel.CancelDrag()
	return s.renderer.Close()
}

func (s *Session) reposition(sectorId, seatId string, pos model.Point) error {
	result, err := s.venue.ApplySeatPositions(sectorId, []model.SeatPositionPatch{{SeatId: seatId, Position: pos}})
	if err != nil {
		return err
	}
	for _, id := range result.Unknown {
		s.log.Warn("position patch names unknown seat", slog.String("sector_id", sectorId), slog.String("seat_id", id))
	}
	if result.Applied == 0 {
		return nil
	}
	key := pendingKey{sectorId: sectorId, seatId: seatId}
	if _, ok := s.pending[key]; !ok {
		s.order = append(s.order, key)
	}
	s.pending[key] = pos
	return nil
}

// createdSeats copies the generated seats still present in the venue.
func (s *Session) createdSeats() []model.Seat {
	var seats []model.Seat
	for _, key := range s.created {
		seat := s.venue.Sector(key.sectorId).Seat(key.seatId)
		if seat == nil {
			continue
		}
		out := *seat
		if seat.Position != nil {
			p := *seat.Position
			out.Position = &p
		}
		seats = append(seats, out)
	}
	return seats
}

// reapplyPending carries unconfirmed edits over to a freshly set venue.
func (s *Session) reapplyPending(carried []model.Seat) {
	var created []pendingKey
	for _, seat := range carried {
		sector := s.venue.Sector(seat.SectorId)
		if sector == nil {
			s.log.Warn("dropping generated seat of vanished sector",
				slog.String("sector_id", seat.SectorId),
				slog.String("seat", seat.Label()),
			)
			continue
		}
		if sector.Seat(seat.Id) != nil {
			continue
		}
		if sector.HasSeat(seat.Row, seat.Number) {
			s.log.Warn("dropping generated seat taken by reloaded venue",
				slog.String("sector_id", seat.SectorId),
				slog.String("seat", seat.Label()),
			)
			continue
		}
		sector.Seats = append(sector.Seats, seat)
		created = append(created, pendingKey{sectorId: seat.SectorId, seatId: seat.Id})
	}
	s.created = created

	order := s.order[:0]
	for _, key := range s.order {
		seat := s.venue.Sector(key.sectorId).Seat(key.seatId)
		if seat == nil {
			s.log.Warn("dropping edit for vanished seat",
				slog.String("sector_id", key.sectorId),
				slog.String("seat_id", key.seatId),
			)
			delete(s.pending, key)
			continue
		}
		pos := s.pending[key]
		seat.Position = &pos
		order = append(order, key)
	}
	s.order = order
}

func (s *Session) clearPending() {
	s.pending = map[pendingKey]model.Point{}
	s.order = nil
	s.created = nil
}
