package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type nominatimAdapter struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       logger.Logger
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimAdapter geocodes against a Nominatim-compatible /search endpoint.
func NewNominatimAdapter(cfg config.Config, log logger.Logger) (service.Geocoder, error) {
	if cfg.Geocoder.BaseURL == "" {
		return nil, fmt.Errorf("geocoder base url is not configured")
	}
	return &nominatimAdapter{
		baseURL:   strings.TrimRight(cfg.Geocoder.BaseURL, "/"),
		userAgent: cfg.Geocoder.UserAgent,
		client:    &http.Client{Timeout: cfg.Geocoder.Timeout},
		log:       log,
	}, nil
}

func (a *nominatimAdapter) Geocode(ctx context.Context, address string) (*service.GeoResult, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(places) == 0 {
		a.log.Debug("Geocoder found no match", zap.String("address", address))
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}
	return &service.GeoResult{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: places[0].DisplayName,
	}, nil
}
