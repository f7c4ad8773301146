package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
)

const (
	defaultBaseURL              = "https://nominatim.openstreetmap.org"
	defaultLimit                = 5
	responseBodyReadLimit int64 = 1024
)

var errUserAgentRequired = errors.New("nominatim user agent is required")

// Client wraps the OpenStreetMap Nominatim search and reverse endpoints.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	countryCodes string
	limit        int
	metrics      *metrics.DependencyMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a self-hosted Nominatim.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithCountryCodes restricts search results, e.g. "id".
func WithCountryCodes(codes string) Option {
	return func(c *Client) {
		c.countryCodes = strings.TrimSpace(codes)
	}
}

// WithLimit caps the number of search results.
func WithLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithMetrics records call latency per outcome.
func WithMetrics(m *metrics.DependencyMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a client. Nominatim's usage policy requires an identifying User-Agent.
func NewClient(userAgent string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(userAgent)
	if trimmed == "" {
		return nil, errUserAgentRequired
	}

	client := &Client{
		userAgent:  trimmed,
		baseURL:    defaultBaseURL,
		limit:      defaultLimit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Place is one geocoder hit.
type Place struct {
	PlaceID     int64
	Lat         float64
	Lon         float64
	DisplayName string
	Address     AddressDetails
}

// AddressDetails mirrors the addressdetails=1 breakdown.
type AddressDetails struct {
	Road          string `json:"road"`
	Pedestrian    string `json:"pedestrian"`
	Footway       string `json:"footway"`
	Cycleway      string `json:"cycleway"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	CityDistrict  string `json:"city_district"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Postcode      string `json:"postcode"`
	State         string `json:"state"`
	Country       string `json:"country"`
}

type placePayload struct {
	PlaceID     int64          `json:"place_id"`
	Lat         string         `json:"lat"`
	Lon         string         `json:"lon"`
	DisplayName string         `json:"display_name"`
	Address     AddressDetails `json:"address"`
	Error       string         `json:"error"`
}

// Search geocodes free text.
func (c *Client) Search(ctx context.Context, query string) (_ []Place, err error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "nominatim client not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	defer c.metrics.Track(metrics.DependencyNominatim, time.Now(), &err)

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(c.limit))
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}

	var payload []placePayload
	if err := c.get(ctx, "search", params, &payload); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(payload))
	for _, p := range payload {
		places = append(places, p.toPlace())
	}
	return places, nil
}

// Reverse resolves a coordinate to the nearest address.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (_ *Place, err error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "nominatim client not configured")
	}
	defer c.metrics.Track(metrics.DependencyNominatim, time.Now(), &err)

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("addressdetails", "1")

	var payload placePayload
	if err := c.get(ctx, "reverse", params, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reverse geocode failed").WithDetails(map[string]any{"reason": payload.Error})
	}
	place := payload.toPlace()
	return &place, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.baseURL, "/"), path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build nominatim request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute nominatim request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "nominatim request failed")
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode nominatim response")
	}
	return nil
}

func (p placePayload) toPlace() Place {
	lat, _ := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	lon, _ := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	return Place{
		PlaceID:     p.PlaceID,
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Address:     p.Address,
	}
}
