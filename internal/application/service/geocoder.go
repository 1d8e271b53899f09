package service

import "context"

type GeoResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

type Geocoder interface {
	// Geocode returns nil with no error when the provider has no match.
	Geocode(ctx context.Context, address string) (*GeoResult, error)
}
