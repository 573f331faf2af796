// Package openaq provides a client for the OpenAQ ground station API and an
// overlay service that blends measured concentrations into generated readings.
package openaq

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

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the OpenAQ v2 API.
	DefaultBaseURL = "https://api.openaq.org/v2"

	// ProviderName identifies this provider.
	ProviderName = "openaq"

	// defaultRadiusKM is the search radius around a station's coordinates.
	defaultRadiusKM = 50

	// defaultLimit caps the number of locations per query.
	defaultLimit = 100
)

// ErrNoMeasurements is returned when no ground stations report near the
// requested coordinates.
var ErrNoMeasurements = errors.New("no ground station measurements available")

// ClientConfig holds configuration for the OpenAQ client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration

	// RadiusKM is the search radius around the queried point (default: 50).
	RadiusKM int
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an OpenAQ API client.
type Client struct {
	baseURL    string
	radiusKM   int
	httpClient HTTPDoer
	resilient  *resilience.Client
}

// NewClient creates a new OpenAQ client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	radius := cfg.RadiusKM
	if radius <= 0 {
		radius = defaultRadiusKM
	}

	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		radiusKM: radius,
	}

	if cfg.HTTPClient != nil {
		c.httpClient = cfg.HTTPClient
	} else {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		c.resilient = resilience.NewClient(resilience.Config{
			Name:    ProviderName,
			Timeout: timeout,
		})
		c.httpClient = c.resilient
	}

	return c
}

// Health reports the underlying circuit breaker state, if the client was
// built with the default resilient transport.
func (c *Client) Health() *resilience.Health {
	if c.resilient == nil {
		return nil
	}
	h := c.resilient.Health()
	return &h
}

// API response types (from OpenAQ v2).

type latestResponse struct {
	Results []latestResult `json:"results"`
}

type latestResult struct {
	Location     string            `json:"location"`
	Measurements []measurementData `json:"measurements"`
}

type measurementData struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// FetchLatest queries ground stations near the given coordinates and returns
// the mean concentration per species across all reporting stations.
func (c *Client) FetchLatest(ctx context.Context, lat, lon float64) (map[aqi.Species]float64, error) {
	query := url.Values{}
	query.Set("coordinates", fmt.Sprintf("%.4f,%.4f", lat, lon))
	query.Set("radius", strconv.Itoa(c.radiusKM*1000))
	query.Set("limit", strconv.Itoa(defaultLimit))

	endpoint := c.baseURL + "/latest?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from latest endpoint", resp.StatusCode)
	}

	var result latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode latest response: %w", err)
	}

	return averageBySpecies(result.Results), nil
}

// averageBySpecies aggregates raw measurements into per-species means,
// skipping parameters outside the supported species set.
func averageBySpecies(results []latestResult) map[aqi.Species]float64 {
	sums := make(map[aqi.Species]float64)
	counts := make(map[aqi.Species]int)

	for _, r := range results {
		for _, m := range r.Measurements {
			species := toSpecies(m.Parameter)
			if species == "" || m.Value < 0 {
				continue
			}
			sums[species] += m.Value
			counts[species]++
		}
	}

	means := make(map[aqi.Species]float64, len(sums))
	for species, sum := range sums {
		means[species] = sum / float64(counts[species])
	}
	return means
}

// toSpecies converts an OpenAQ parameter name to our species code.
func toSpecies(parameter string) aqi.Species {
	switch strings.ToLower(parameter) {
	case "pm25":
		return aqi.SpeciesPM25
	case "pm10":
		return aqi.SpeciesPM10
	case "no2":
		return aqi.SpeciesNO2
	case "o3":
		return aqi.SpeciesO3
	case "so2":
		return aqi.SpeciesSO2
	case "co":
		return aqi.SpeciesCO
	default:
		return ""
	}
}
