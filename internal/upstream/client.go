package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
)

var (
	// ErrUpstream is returned when the feed cannot be reached or answers with an error
	ErrUpstream = errors.New("upstream fetch failed")
	// ErrMalformedFeed is returned when the payload is not a JSON array
	ErrMalformedFeed = errors.New("malformed magazine feed")
)

const userAgent = "submission-digest-api/1.0"

// Client fetches the raw magazine list over HTTP
type Client struct {
	url      string
	http     *http.Client
	observer pipeline.Observer
	log      zerolog.Logger
}

// NewClient creates a reusable HTTP client for the feed at url
func NewClient(url string, timeout time.Duration, observer pipeline.Observer, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if observer == nil {
		observer = pipeline.NopObserver{}
	}
	return &Client{
		url:      url,
		http:     &http.Client{Timeout: timeout},
		observer: observer,
		log:      log.With().Str("component", "upstream").Logger(),
	}
}

// FetchMagazines downloads and decodes the complete magazine list
func (c *Client) FetchMagazines(ctx context.Context) ([]models.Magazine, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned %s", ErrUpstream, resp.Status)
	}

	magazines, err := Decode(resp.Body, c.observer)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("count", len(magazines)).
		Dur("duration", time.Since(start)).
		Msg("Magazine feed fetched")

	return magazines, nil
}

// FileSource reads the magazine list from a JSON file on disk
type FileSource struct {
	Path     string
	Observer pipeline.Observer
}

// FetchMagazines decodes the file at s.Path
func (s FileSource) FetchMagazines(ctx context.Context) ([]models.Magazine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open magazine file: %w", err)
	}
	defer f.Close()

	observer := s.Observer
	if observer == nil {
		observer = pipeline.NopObserver{}
	}
	return Decode(f, observer)
}

// Decode reads a JSON array of magazines. Elements that do not decode are
// reported to observer and left out; only a payload that is not an array is
// an error.
func Decode(r io.Reader, observer pipeline.Observer) ([]models.Magazine, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err)
	}

	magazines := make([]models.Magazine, 0, len(raw))
	for i, item := range raw {
		var m models.Magazine
		if err := json.Unmarshal(item, &m); err != nil {
			observer.RecordSkipped(i, "", pipeline.ReasonUndecodable)
			continue
		}
		magazines = append(magazines, m)
	}
	return magazines, nil
}
