// Package maps wraps the Google Maps APIs used for geocoding, routing and
// address autocomplete. The provider is an external collaborator: every
// failure surfaces as ErrUpstream so callers can map it uniformly.
package maps

import (
	"context"
	"errors"
	"fmt"

	gmaps "googlemaps.github.io/maps"
)

// ErrUpstream is returned when the maps provider fails or has no result.
var ErrUpstream = errors.New("maps provider unavailable")

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceTime is the travel estimate between two addresses.
type DistanceTime struct {
	DistanceMeters  int64 `json:"distanceMeters"`
	DurationSeconds int64 `json:"durationSeconds"`
}

// Suggestion is a single autocomplete prediction.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// Geocoder is the gateway interface consumed by services.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
	DistanceTime(ctx context.Context, origin, destination string) (DistanceTime, error)
	Suggestions(ctx context.Context, input string) ([]Suggestion, error)
}

// Client implements Geocoder against the Google Maps web services.
type Client struct {
	c *gmaps.Client
}

// NewClient creates a maps client with the given API key.
func NewClient(apiKey string) (*Client, error) {
	c, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Client{c: c}, nil
}

// Geocode resolves a free-text address to coordinates.
func (s *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	results, err := s.c.Geocode(ctx, &gmaps.GeocodingRequest{Address: address})
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: geocode: %v", ErrUpstream, err)
	}
	if len(results) == 0 {
		return Coordinates{}, fmt.Errorf("%w: no coordinates for %q", ErrUpstream, address)
	}

	loc := results[0].Geometry.Location
	return Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// DistanceTime returns the driving distance and duration between addresses.
func (s *Client) DistanceTime(ctx context.Context, origin, destination string) (DistanceTime, error) {
	resp, err := s.c.DistanceMatrix(ctx, &gmaps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
	})
	if err != nil {
		return DistanceTime{}, fmt.Errorf("%w: distance matrix: %v", ErrUpstream, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return DistanceTime{}, fmt.Errorf("%w: empty distance matrix", ErrUpstream)
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return DistanceTime{}, fmt.Errorf("%w: no route found (%s)", ErrUpstream, element.Status)
	}

	return DistanceTime{
		DistanceMeters:  int64(element.Distance.Meters),
		DurationSeconds: int64(element.Duration.Seconds()),
	}, nil
}

// Suggestions returns autocomplete predictions for a partial address.
func (s *Client) Suggestions(ctx context.Context, input string) ([]Suggestion, error) {
	resp, err := s.c.PlaceAutocomplete(ctx, &gmaps.PlaceAutocompleteRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("%w: autocomplete: %v", ErrUpstream, err)
	}

	suggestions := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		suggestions = append(suggestions, Suggestion{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}
	return suggestions, nil
}

// Ensure Client implements Geocoder.
var _ Geocoder = (*Client)(nil)
