package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CountriesNowDefaultURL is the public CountriesNow v0.1 API.
const CountriesNowDefaultURL = "https://countriesnow.space/api/v0.1"

// CountriesNowClient talks to the CountriesNow API (flags, population).
type CountriesNowClient struct {
	baseURL string
	client  *http.Client
}

// NewCountriesNowClient constructs a CountriesNowClient against baseURL.
// An empty baseURL selects CountriesNowDefaultURL.
func NewCountriesNowClient(baseURL string, timeout time.Duration) *CountriesNowClient {
	if baseURL == "" {
		baseURL = CountriesNowDefaultURL
	}
	return &CountriesNowClient{baseURL: strings.TrimRight(baseURL, "/"), client: NewHTTPClient(timeout)}
}

// Flag looks up the flag image of a country by its ISO2 code.
func (c *CountriesNowClient) Flag(ctx context.Context, iso2 string) (*FlagResponse, error) {
	req := Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/countries/flag/images",
		Body:   flagRequest{ISO2: iso2},
	}

	var flag FlagResponse
	if err := doJSON(ctx, c.client, req, &flag); err != nil {
		return nil, fmt.Errorf("countriesnow flag for %s: %w", iso2, err)
	}
	return &flag, nil
}

// Population fetches the population history of a country by common name.
// The payload is returned undecoded.
func (c *CountriesNowClient) Population(ctx context.Context, country string) (json.RawMessage, error) {
	req := Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/countries/population",
		Body:   populationRequest{Country: country},
	}

	var population json.RawMessage
	if err := doJSON(ctx, c.client, req, &population); err != nil {
		return nil, fmt.Errorf("countriesnow population for %s: %w", country, err)
	}
	return population, nil
}
