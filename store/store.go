package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seatmap/model"
)

const (
	venueCacheTTL   = 10 * time.Minute
	maxRecentVenues = 8
)

const (
	SourceFile = "file"
	SourceAPI  = "api"
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// RecentVenue is a venue the editor opened before. Ref is a file path for
// SourceFile and a venue id for SourceAPI.
type RecentVenue struct {
	Source string `json:"source"`
	Ref    string `json:"ref"`
	Name   string `json:"name"`
}

type venueHistory struct {
	Venues []RecentVenue `json:"venues"`
}

// JournalEntry is one line of the commit journal.
type JournalEntry struct {
	At      time.Time       `json:"at"`
	Changes model.ChangeSet `json:"changes"`
}

func LoadVenue(path string) (*model.Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var venue model.Venue
	if err := json.Unmarshal(data, &venue); err != nil {
		return nil, fmt.Errorf("invalid venue file %s: %w", path, err)
	}
	if err := venue.Validate(); err != nil {
		return nil, fmt.Errorf("invalid venue file %s: %w", path, err)
	}
	return &venue, nil
}

func SaveVenue(path string, venue *model.Venue) error {
	if venue == nil {
		return errors.New("venue is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(venue, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// LoadVenueCache returns the last venue fetched from the API and whether
// it is still fresh.
func LoadVenueCache(venueID string) (*model.Venue, bool, error) {
	path, err := cachePath(fmt.Sprintf("venue_%s.json", venueID))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[*model.Venue](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= venueCacheTTL, nil
}

func SaveVenueCache(venue *model.Venue) error {
	if venue == nil || strings.TrimSpace(venue.Id) == "" {
		return errors.New("venue id is required")
	}
	path, err := cachePath(fmt.Sprintf("venue_%s.json", venue.Id))
	if err != nil {
		return err
	}
	return saveCache(path, venue)
}

func LoadRecentVenues() ([]RecentVenue, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history venueHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid venue history format")
	}
	return history.Venues, nil
}

// RememberVenue moves the venue to the front of the history.
func RememberVenue(recent RecentVenue) error {
	if recent.Source == "" || strings.TrimSpace(recent.Ref) == "" {
		return errors.New("venue source and ref are required")
	}
	if recent.Source == SourceFile {
		if abs, err := filepath.Abs(recent.Ref); err == nil {
			recent.Ref = abs
		}
	}

	history, _ := LoadRecentVenues()
	next := []RecentVenue{recent}
	for _, existing := range history {
		if existing.Source == recent.Source && existing.Ref == recent.Ref {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentVenues {
			break
		}
	}

	return saveRecentVenues(next)
}

// FileCommitter applies confirmed changes to a venue file and, when
// Journal is set, appends them to a JSON lines journal.
type FileCommitter struct {
	Path    string
	Journal string
}

func (c FileCommitter) Commit(ctx context.Context, changes model.ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	venue, err := LoadVenue(c.Path)
	if err != nil {
		return err
	}
	if changes.VenueId != "" && venue.Id != "" && changes.VenueId != venue.Id {
		return fmt.Errorf("changes for venue %q do not match file venue %q", changes.VenueId, venue.Id)
	}
	if _, err := venue.ApplyChanges(changes); err != nil {
		return err
	}
	if err := SaveVenue(c.Path, venue); err != nil {
		return err
	}
	if c.Journal == "" {
		return nil
	}
	if err := appendJournal(c.Journal, JournalEntry{At: time.Now().UTC(), Changes: changes}); err != nil {
		// the venue file already holds the changes
		return &model.CommitError{Remaining: model.ChangeSet{VenueId: changes.VenueId}, Err: err}
	}
	return nil
}

// DefaultJournalPath places the journal of a venue file in the cache dir.
func DefaultJournalPath(venuePath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(venuePath), filepath.Ext(venuePath))
	return cachePath(fmt.Sprintf("journal_%s.jsonl", base))
}

func appendJournal(path string, entry JournalEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentVenues(venues []RecentVenue) error {
	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	history := venueHistory{Venues: venues}
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seatmap", name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seatmap", name), nil
}
