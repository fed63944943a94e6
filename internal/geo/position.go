// Package geo detects the user's city once per session: a best-effort position
// from a PositionSource, reverse-geocoded through Nominatim.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// ErrUnavailable means the source cannot provide a position at all.
var ErrUnavailable = errors.New("geo: position unavailable")

// PositionSource yields the current position.
type PositionSource interface {
	Position(ctx context.Context) (Coordinates, error)
}

// Disabled never yields a position.
type Disabled struct{}

// Position implements PositionSource.
func (Disabled) Position(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrUnavailable
}

// StaticSource returns a configured point.
type StaticSource struct {
	Coords Coordinates
}

// Position implements PositionSource.
func (s StaticSource) Position(context.Context) (Coordinates, error) {
	return s.Coords, nil
}

// IPSource asks an IP geolocation service where the machine is. It is the
// terminal analogue of a browser's coarse geolocation.
type IPSource struct {
	URL    string
	Client *http.Client
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Position implements PositionSource.
func (s IPSource) Position(ctx context.Context) (Coordinates, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Coordinates{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("ip lookup: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("ip lookup: status %d", resp.StatusCode)
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("ip lookup: decode: %w", err)
	}
	if body.Status != "" && body.Status != "success" {
		return Coordinates{}, fmt.Errorf("ip lookup: %s %s", body.Status, body.Message)
	}
	return Coordinates{Lat: body.Lat, Lon: body.Lon}, nil
}

// CachedSource reuses a previous position for up to MaxAge.
type CachedSource struct {
	Source PositionSource
	MaxAge time.Duration

	now  func() time.Time
	mu   sync.Mutex
	last Coordinates
	at   time.Time
}

// Position implements PositionSource.
func (c *CachedSource) Position(ctx context.Context) (Coordinates, error) {
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	c.mu.Lock()
	if !c.at.IsZero() && now().Sub(c.at) <= c.MaxAge {
		p := c.last
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	p, err := c.Source.Position(ctx)
	if err != nil {
		return Coordinates{}, err
	}

	c.mu.Lock()
	c.last, c.at = p, now()
	c.mu.Unlock()
	return p, nil
}
