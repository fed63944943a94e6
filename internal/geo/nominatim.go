package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"munch/internal/logging"

	"golang.org/x/time/rate"
)

// ErrNoPlace means the address carried none of the accepted place fields.
var ErrNoPlace = errors.New("geo: no place name in address")

// Geocoder resolves coordinates to a place name with Nominatim's reverse API.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewGeocoder creates a reverse geocoder. Nominatim's usage policy allows one
// request per second and requires an identifying User-Agent.
func NewGeocoder(baseURL, userAgent string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
}

type nominatimReverse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// Reverse returns the place name for p.
func (g *Geocoder) Reverse(ctx context.Context, p Coordinates) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	reqURL := fmt.Sprintf("%s/reverse?%s", g.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logging.GeoDebug("nominatim request failed: %v", err)
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.GeoDebug("nominatim upstream error: status %d", resp.StatusCode)
		return "", fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}

	var body nominatimReverse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logging.GeoDebug("failed to decode nominatim payload: %v", err)
		return "", err
	}

	place := pickCity(body.Address)
	if place == "" {
		return "", ErrNoPlace
	}
	return place, nil
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	return address.Municipality
}
