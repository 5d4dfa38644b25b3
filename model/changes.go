package model

import "fmt"

// ChangeSet is what an edit session hands to a collaborator on confirm:
// seats generated during the session and position patches for seats the
// collaborator already knows.
type ChangeSet struct {
	VenueId string        `json:"venueId"`
	Created []Seat        `json:"created,omitempty"`
	Patches []SectorPatch `json:"patches,omitempty"`
}

func (c ChangeSet) Empty() bool {
	return len(c.Created) == 0 && len(c.Patches) == 0
}

// Count is the number of seats the change set touches.
func (c ChangeSet) Count() int {
	n := len(c.Created)
	for _, p := range c.Patches {
		n += len(p.Patches)
	}
	return n
}

// CommitError reports a change set the collaborator stored only in part.
// Remaining holds the changes that were not stored.
type CommitError struct {
	Remaining ChangeSet
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%d changes not saved: %v", e.Remaining.Count(), e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// ApplyChanges adds the created seats to their sectors and applies every
// sector patch. Created seats whose id already exists in the sector are
// left as they are. Either the whole change set applies or the venue is
// untouched.
func (v *Venue) ApplyChanges(c ChangeSet) (PatchResult, error) {
	if v == nil {
		return PatchResult{}, &NotFoundError{Kind: "venue", Id: c.VenueId}
	}
	next := v.Clone()
	var result PatchResult

	for _, seat := range c.Created {
		sector := next.Sector(seat.SectorId)
		if sector == nil {
			return PatchResult{}, &NotFoundError{Kind: "sector", Id: seat.SectorId}
		}
		if sector.Seat(seat.Id) != nil {
			continue
		}
		if seat.Position != nil {
			p := *seat.Position
			seat.Position = &p
		}
		sector.Seats = append(sector.Seats, seat)
		result.Applied++
	}

	for _, patch := range c.Patches {
		part, err := next.ApplySeatPositions(patch.SectorId, patch.Patches)
		if err != nil {
			return PatchResult{}, err
		}
		result.Applied += part.Applied
		result.Unknown = append(result.Unknown, part.Unknown...)
	}

	*v = *next
	return result, nil
}
