// Package geocode resolves postal addresses to coordinates through the
// Google Geocoding API. The client is an injected collaborator so the
// pipeline can run against a test double.
package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/flispi/landbank/internal/models"
)

// DefaultBaseURL is the production Google Geocoding endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode"

// Geocoder resolves a free-text address to zero or more candidate matches.
// The first candidate is authoritative; an empty slice with a nil error
// means the provider found no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]models.Coordinates, error)
}

// Config configures the Google client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Google Geocoding API.
type Client struct {
	http *resty.Client
	key  string
}

// New creates a Google geocoding client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
		key:  cfg.APIKey,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location models.Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves address. A ZERO_RESULTS response is not an error; any
// other non-OK status (quota, denied) is.
func (c *Client) Geocode(ctx context.Context, address string) ([]models.Coordinates, error) {
	var body geocodeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"address": address,
			"key":     c.key,
		}).
		SetResult(&body).
		Get("/json")
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocode request: status %d", resp.StatusCode())
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("geocode provider: %s", body.Status)
	}

	coords := make([]models.Coordinates, 0, len(body.Results))
	for _, r := range body.Results {
		coords = append(coords, r.Geometry.Location)
	}
	return coords, nil
}
