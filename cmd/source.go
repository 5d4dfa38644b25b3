package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"seatmap/model"
	"seatmap/service"
	"seatmap/session"
	"seatmap/store"
	"seatmap/tui"
)

// venueSource is where a venue is loaded from and committed to.
type venueSource struct {
	title     string
	load      tui.Loader
	committer session.Committer
}

var errNoSource = errors.New("no venue given: use --file, or --api with --venue")

// resolveSource picks the venue from the flags. When interactive is set
// and no flag names a venue, the user is prompted.
func resolveSource(ctx context.Context, interactive bool) (*venueSource, error) {
	switch {
	case opts.file != "":
		return fileSource(opts.file)
	case opts.venueID != "":
		return apiSource(opts.venueID)
	case !interactive:
		return nil, errNoSource
	}
	return pickSource(ctx)
}

func fileSource(path string) (*venueSource, error) {
	journal, err := store.DefaultJournalPath(path)
	if err != nil {
		log.Warn("commit journal disabled", slog.Any("error", err))
		journal = ""
	}
	return &venueSource{
		title: filepath.Base(path),
		load: func(ctx context.Context) (*model.Venue, error) {
			venue, err := store.LoadVenue(path)
			if err != nil {
				return nil, err
			}
			remember(store.RecentVenue{Source: store.SourceFile, Ref: path, Name: venue.Name})
			return venue, nil
		},
		committer: store.FileCommitter{Path: path, Journal: journal},
	}, nil
}

func apiSource(venueID string) (*venueSource, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return &venueSource{
		title: fmt.Sprintf("%s/venues/%s", opts.apiURL, venueID),
		load: func(ctx context.Context) (*model.Venue, error) {
			return fetchVenue(ctx, client, venueID)
		},
		committer: client,
	}, nil
}

// fetchVenue falls back to the last cached copy when the API is
// unreachable. A venue the API reports missing is not served from cache.
func fetchVenue(ctx context.Context, client *service.Client, venueID string) (*model.Venue, error) {
	venue, err := client.GetVenue(ctx, venueID)
	if err != nil {
		if service.IsNotFound(err) {
			return nil, err
		}
		cached, _, cacheErr := store.LoadVenueCache(venueID)
		if cacheErr != nil || cached == nil {
			return nil, err
		}
		log.WithVenue(venueID).WithError(err).Warn("serving cached venue")
		return cached, nil
	}
	if err := store.SaveVenueCache(venue); err != nil {
		log.WithVenue(venueID).WithError(err).Warn("venue cache not updated")
	}
	remember(store.RecentVenue{Source: store.SourceAPI, Ref: venueID, Name: venue.Name})
	return venue, nil
}

func newClient() (*service.Client, error) {
	if opts.apiURL == "" {
		return nil, errors.New("venue API URL is not set: use --api or SEATMAP_API_URL")
	}
	httpClient := &http.Client{}
	token := ""
	if cfg != nil {
		httpClient.Timeout = cfg.API.Timeout
		token = cfg.API.Token
	}
	return service.NewClient(opts.apiURL, token, httpClient), nil
}

func remember(recent store.RecentVenue) {
	if err := store.RememberVenue(recent); err != nil {
		log.Warn("venue history not updated", slog.Any("error", err))
	}
}

const (
	itemOpenFile  = "Open a venue file..."
	itemBrowseAPI = "Browse venues on the API..."
)

func pickSource(ctx context.Context) (*venueSource, error) {
	recent, err := store.LoadRecentVenues()
	if err != nil {
		log.Warn("venue history unreadable", slog.Any("error", err))
	}

	var items []string
	for _, r := range recent {
		name := r.Name
		if name == "" {
			name = r.Ref
		}
		items = append(items, fmt.Sprintf("%s (%s: %s)", name, r.Source, r.Ref))
	}
	items = append(items, itemOpenFile)
	if opts.apiURL != "" {
		items = append(items, itemBrowseAPI)
	}

	selectSource := promptui.Select{
		Label: "Open Venue",
		Items: items,
		Size:  10,
	}
	index, choice, err := selectSource.Run()
	if err != nil {
		return nil, err
	}

	switch {
	case index < len(recent):
		r := recent[index]
		if r.Source == store.SourceAPI {
			return apiSource(r.Ref)
		}
		return fileSource(r.Ref)
	case choice == itemOpenFile:
		path, err := promptFile()
		if err != nil {
			return nil, err
		}
		return fileSource(path)
	default:
		venueID, err := promptAPIVenue(ctx)
		if err != nil {
			return nil, err
		}
		return apiSource(venueID)
	}
}

func promptFile() (string, error) {
	validate := func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" {
			return errors.New("path is required")
		}
		if _, err := os.Stat(input); err != nil {
			return errors.New("file not found")
		}
		return nil
	}

	prompt := promptui.Prompt{
		Label:    "Venue file",
		Validate: validate,
	}
	path, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func promptAPIVenue(ctx context.Context) (string, error) {
	client, err := newClient()
	if err != nil {
		return "", err
	}
	venues, err := client.ListVenues(ctx)
	if err != nil {
		return "", err
	}
	if len(venues) == 0 {
		return "", errors.New("the API has no venues")
	}

	items := make([]string, len(venues))
	for i, v := range venues {
		items[i] = fmt.Sprintf("%s (%s)", v.Name, v.Id)
	}
	selectVenue := promptui.Select{
		Label:    "Select Venue",
		Items:    items,
		Size:     10,
		Searcher: containsSearcher(items),
	}
	index, _, err := selectVenue.Run()
	if err != nil {
		return "", err
	}
	return venues[index].Id, nil
}

// promptSector asks for a sector of v and returns its id.
func promptSector(v *model.Venue) (string, error) {
	if len(v.Sectors) == 0 {
		return "", errors.New("venue has no sectors")
	}
	items := make([]string, len(v.Sectors))
	for i, s := range v.Sectors {
		items[i] = s.Name
	}
	selectSector := promptui.Select{
		Label:    "Select Sector",
		Items:    items,
		Size:     10,
		Searcher: containsSearcher(items),
	}
	index, _, err := selectSector.Run()
	if err != nil {
		return "", err
	}
	return v.Sectors[index].Id, nil
}

func containsSearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		term := strings.ToLower(strings.TrimSpace(input))
		return strings.Contains(strings.ToLower(items[index]), term)
	}
}

// findSector resolves a sector by id, or by name ignoring case.
func findSector(v *model.Venue, ref string) (string, error) {
	if s := v.Sector(ref); s != nil {
		return s.Id, nil
	}
	for _, s := range v.Sectors {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(ref)) {
			return s.Id, nil
		}
	}
	return "", &model.NotFoundError{Kind: "sector", Id: ref}
}
