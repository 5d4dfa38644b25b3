package model

import (
	"fmt"
	"math"
)

type SeatPositionPatch struct {
	SeatId   string `json:"seatId"`
	Position Point  `json:"position"`
}

// SectorPatch is the committed set of position changes for one sector.
type SectorPatch struct {
	SectorId string              `json:"sectorId"`
	Patches  []SeatPositionPatch `json:"patches"`
}

type PatchResult struct {
	Applied int
	Unknown []string
}

// ApplySeatPositions overwrites the position of every named seat in the
// sector. Patches naming seats the sector does not hold are skipped and
// reported in PatchResult.Unknown. The patch set is validated before any
// seat is touched, so either every known seat moves or none does.
func (v *Venue) ApplySeatPositions(sectorId string, patches []SeatPositionPatch) (PatchResult, error) {
	sector := v.Sector(sectorId)
	if sector == nil {
		return PatchResult{}, &NotFoundError{Kind: "sector", Id: sectorId}
	}

	for _, patch := range patches {
		if !finite(patch.Position.X) || !finite(patch.Position.Y) {
			return PatchResult{}, fmt.Errorf("seat %q: %w", patch.SeatId, ErrInvalidPosition)
		}
	}

	index := make(map[string]int, len(sector.Seats))
	for i, seat := range sector.Seats {
		index[seat.Id] = i
	}

	type write struct {
		at  int
		pos Point
	}
	writes := make([]write, 0, len(patches))
	var result PatchResult
	for _, patch := range patches {
		i, ok := index[patch.SeatId]
		if !ok {
			result.Unknown = append(result.Unknown, patch.SeatId)
			continue
		}
		writes = append(writes, write{at: i, pos: patch.Position})
	}

	for _, w := range writes {
		p := w.pos
		sector.Seats[w.at].Position = &p
	}
	result.Applied = len(writes)
	return result, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
