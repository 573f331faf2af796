package openaq_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/openaq"
)

const latestPayload = `{
	"results": [
		{
			"location": "Vyttila",
			"measurements": [
				{"parameter": "pm25", "value": 48.0, "unit": "µg/m³"},
				{"parameter": "no2", "value": 30.0, "unit": "ppb"},
				{"parameter": "bc", "value": 2.1, "unit": "µg/m³"}
			]
		},
		{
			"location": "Kalamassery",
			"measurements": [
				{"parameter": "PM25", "value": 52.0, "unit": "µg/m³"},
				{"parameter": "o3", "value": 0.041, "unit": "ppm"}
			]
		}
	]
}`

func TestClientFetchLatest(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/latest", r.URL.Path)
		gotQuery = map[string]string{
			"coordinates": r.URL.Query().Get("coordinates"),
			"radius":      r.URL.Query().Get("radius"),
			"limit":       r.URL.Query().Get("limit"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(latestPayload))
	}))
	defer server.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		RadiusKM:   25,
	})

	means, err := client.FetchLatest(context.Background(), 9.9312, 76.2673)
	require.NoError(t, err)

	assert.Equal(t, "9.9312,76.2673", gotQuery["coordinates"])
	assert.Equal(t, "25000", gotQuery["radius"])
	assert.Equal(t, "100", gotQuery["limit"])

	// PM25 is averaged across the two stations, bc is discarded.
	require.Len(t, means, 3)
	assert.InDelta(t, 50.0, means[aqi.SpeciesPM25], 1e-9)
	assert.InDelta(t, 30.0, means[aqi.SpeciesNO2], 1e-9)
	assert.InDelta(t, 0.041, means[aqi.SpeciesO3], 1e-9)
}

func TestClientFetchLatestEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	means, err := client.FetchLatest(context.Background(), 9.9312, 76.2673)
	require.NoError(t, err)
	assert.Empty(t, means)
}

func TestClientFetchLatestUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchLatest(context.Background(), 9.9312, 76.2673)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestClientHealthWithCustomTransport(t *testing.T) {
	client := openaq.NewClient(openaq.ClientConfig{HTTPClient: http.DefaultClient})
	assert.Nil(t, client.Health())
}

func TestClientHealthWithDefaultTransport(t *testing.T) {
	client := openaq.NewClient(openaq.ClientConfig{})
	health := client.Health()
	require.NotNil(t, health)
	assert.Equal(t, openaq.ProviderName, health.Name)
	assert.True(t, health.Healthy())
}
