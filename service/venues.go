package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"seatmap/model"
)

const (
	defaultUserAgent   = "seatmap"
	defaultTimeout     = 12 * time.Second
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond

	// maxParallelSectors bounds concurrent position updates in Commit.
	maxParallelSectors = 4

	sharedFetchTimeout = 30 * time.Second
)

// Client wraps HTTP access to the venue backend.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration

	flight singleflight.Group
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "venue api error"
	}
	return fmt.Sprintf("venue api error: %s: %s", e.Status, e.Body)
}

// Is lets errors.Is(err, model.ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == model.ErrNotFound && e != nil && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a client for the backend at baseURL. token, when set,
// is sent as a bearer token. If httpClient is nil, a default client is
// used.
func NewClient(baseURL string, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// ListVenues returns the venues the backend knows, without seats.
func (c *Client) ListVenues(ctx context.Context) ([]model.Venue, error) {
	endpoint := fmt.Sprintf("%s/venues", c.baseURL)

	var venues []model.Venue
	if err := c.getJSON(ctx, endpoint, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// GetVenue fetches a full venue record with sectors and seats. Concurrent
// calls for the same venue share one request; each caller gets its own
// copy and stops waiting when its own ctx is done. The shared request
// outlives a cancelled caller for at most sharedFetchTimeout.
func (c *Client) GetVenue(ctx context.Context, venueID string) (*model.Venue, error) {
	if strings.TrimSpace(venueID) == "" {
		return nil, errors.New("venue id is required")
	}
	ch := c.flight.DoChan(venueID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return c.fetchVenue(fetchCtx, venueID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Venue).Clone(), nil
	}
}

func (c *Client) fetchVenue(ctx context.Context, venueID string) (*model.Venue, error) {
	endpoint := fmt.Sprintf("%s/venues/%s", c.baseURL, url.PathEscape(venueID))

	var venue model.Venue
	if err := c.getJSON(ctx, endpoint, &venue); err != nil {
		return nil, err
	}
	if venue.Id == "" {
		return nil, &model.NotFoundError{Kind: "venue", Id: venueID}
	}
	if err := venue.Validate(); err != nil {
		return nil, fmt.Errorf("venue %s: %w", venueID, err)
	}
	return &venue, nil
}

// PutSeatPositions sends the committed positions of one sector.
func (c *Client) PutSeatPositions(ctx context.Context, venueID string, patch model.SectorPatch) error {
	if venueID == "" || patch.SectorId == "" {
		return errors.New("venue id and sector id are required")
	}
	endpoint := fmt.Sprintf("%s/venues/%s/sectors/%s/seats/positions",
		c.baseURL, url.PathEscape(venueID), url.PathEscape(patch.SectorId))
	return c.doJSON(ctx, http.MethodPut, endpoint, patch, nil)
}

// CreateSeats registers generated seats with a sector.
func (c *Client) CreateSeats(ctx context.Context, venueID string, sectorID string, seats []model.Seat) error {
	if venueID == "" || sectorID == "" {
		return errors.New("venue id and sector id are required")
	}
	if len(seats) == 0 {
		return nil
	}
	endpoint := fmt.Sprintf("%s/venues/%s/sectors/%s/seats",
		c.baseURL, url.PathEscape(venueID), url.PathEscape(sectorID))
	return c.doJSON(ctx, http.MethodPost, endpoint, seats, nil)
}

// Commit sends generated seats first, sector by sector, then the position
// patches of all sectors in parallel. A failing sector does not stop the
// others. On failure the error is a *model.CommitError holding the changes
// that did not get through.
func (c *Client) Commit(ctx context.Context, changes model.ChangeSet) error {
	var order []string
	bySector := map[string][]model.Seat{}
	for _, seat := range changes.Created {
		if _, ok := bySector[seat.SectorId]; !ok {
			order = append(order, seat.SectorId)
		}
		bySector[seat.SectorId] = append(bySector[seat.SectorId], seat)
	}
	for i, sectorID := range order {
		if err := c.CreateSeats(ctx, changes.VenueId, sectorID, bySector[sectorID]); err != nil {
			remaining := model.ChangeSet{VenueId: changes.VenueId, Patches: changes.Patches}
			for _, id := range order[i:] {
				remaining.Created = append(remaining.Created, bySector[id]...)
			}
			return &model.CommitError{
				Remaining: remaining,
				Err:       fmt.Errorf("create seats in sector %s: %w", sectorID, err),
			}
		}
	}

	sent := make([]bool, len(changes.Patches))
	var g errgroup.Group
	g.SetLimit(maxParallelSectors)
	for i, patch := range changes.Patches {
		if len(patch.Patches) == 0 {
			sent[i] = true
			continue
		}
		g.Go(func() error {
			if err := c.PutSeatPositions(ctx, changes.VenueId, patch); err != nil {
				return fmt.Errorf("update positions in sector %s: %w", patch.SectorId, err)
			}
			sent[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		remaining := model.ChangeSet{VenueId: changes.VenueId}
		for i, patch := range changes.Patches {
			if !sent[i] {
				remaining.Patches = append(remaining.Patches, patch)
			}
		}
		return &model.CommitError{Remaining: remaining, Err: err}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
}

// doJSON sends body as JSON and decodes the response into out. Only GET
// and PUT are retried.
func (c *Client) doJSON(ctx context.Context, method string, endpoint string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	maxAttempts := c.maxAttempts
	if maxAttempts < 1 || (method != http.MethodGet && method != http.MethodPut) {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return nil
		}
		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	limit := c.retryCap
	if limit <= 0 {
		limit = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= limit/2 {
			return limit
		}
		delay *= 2
	}
	if delay > limit {
		return limit
	}
	return delay
}
