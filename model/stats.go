package model

import (
	"fmt"
	"sort"
)

type SeatStats struct {
	Available   int
	Unavailable int
	Total       int
	Pairs       int
}

// Stats counts seats by availability. Pairs is the number of disjoint
// adjacent available seats in the same row.
func (s *Sector) Stats() SeatStats {
	var stats SeatStats
	if s == nil {
		return stats
	}
	numbers := map[string][]int{}
	for _, seat := range s.Seats {
		stats.Total++
		if !seat.Available {
			stats.Unavailable++
			continue
		}
		stats.Available++
		if n, ok := parseSeatNumber(seat.Number); ok {
			numbers[seat.Row] = append(numbers[seat.Row], n)
		}
	}
	stats.Pairs = countAdjacentPairs(numbers)
	return stats
}

// Stats aggregates the statistics of every sector.
func (v *Venue) Stats() SeatStats {
	var total SeatStats
	if v == nil {
		return total
	}
	for i := range v.Sectors {
		part := v.Sectors[i].Stats()
		total.Available += part.Available
		total.Unavailable += part.Unavailable
		total.Total += part.Total
		total.Pairs += part.Pairs
	}
	return total
}

func countAdjacentPairs(rows map[string][]int) int {
	count := 0
	for _, list := range rows {
		if len(list) == 0 {
			continue
		}
		sort.Ints(list)
		for i := 0; i < len(list)-1; {
			if list[i]+1 == list[i+1] {
				count++
				i += 2
				continue
			}
			i++
		}
	}
	return count
}

// Validate checks the identifier invariants of the venue: sector ids are
// unique within the venue and seat ids are unique within each sector.
func (v *Venue) Validate() error {
	if v == nil {
		return nil
	}
	sectors := make(map[string]bool, len(v.Sectors))
	for _, sector := range v.Sectors {
		if sector.Id == "" {
			return fmt.Errorf("sector %q has an empty id", sector.Name)
		}
		if sectors[sector.Id] {
			return fmt.Errorf("sector %q: %w", sector.Id, ErrDuplicateId)
		}
		sectors[sector.Id] = true

		seats := make(map[string]bool, len(sector.Seats))
		for _, seat := range sector.Seats {
			if seat.Id == "" {
				return fmt.Errorf("sector %q: seat %s has an empty id", sector.Id, seat.Label())
			}
			if seats[seat.Id] {
				return fmt.Errorf("sector %q seat %q: %w", sector.Id, seat.Id, ErrDuplicateId)
			}
			seats[seat.Id] = true
		}
	}
	return nil
}
