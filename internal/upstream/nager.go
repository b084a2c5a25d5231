package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NagerDefaultURL is the public Nager.Date v3 API.
const NagerDefaultURL = "https://date.nager.at/api/v3"

// NagerClient talks to the Nager.Date API (country list, country info,
// public holidays). No API key is required.
type NagerClient struct {
	baseURL string
	client  *http.Client
}

// NewNagerClient constructs a NagerClient against baseURL with the given
// per-request timeout. An empty baseURL selects NagerDefaultURL.
func NewNagerClient(baseURL string, timeout time.Duration) *NagerClient {
	if baseURL == "" {
		baseURL = NagerDefaultURL
	}
	return &NagerClient{baseURL: strings.TrimRight(baseURL, "/"), client: NewHTTPClient(timeout)}
}

// AvailableCountries lists every country Nager.Date has data for.
func (c *NagerClient) AvailableCountries(ctx context.Context) ([]AvailableCountry, error) {
	req := Request{Method: http.MethodGet, URL: c.baseURL + "/AvailableCountries"}

	var countries []AvailableCountry
	if err := doJSON(ctx, c.client, req, &countries); err != nil {
		return nil, fmt.Errorf("nager available countries: %w", err)
	}
	return countries, nil
}

// CountryInfo fetches the info record for an ISO 3166-1 alpha-2 code.
func (c *NagerClient) CountryInfo(ctx context.Context, countryCode string) (*CountryInfo, error) {
	req := Request{Method: http.MethodGet, URL: c.baseURL + "/CountryInfo/" + url.PathEscape(countryCode)}

	var info CountryInfo
	if err := doJSON(ctx, c.client, req, &info); err != nil {
		return nil, fmt.Errorf("nager country info for %s: %w", countryCode, err)
	}
	return &info, nil
}

// PublicHolidays fetches the public holidays of a country for one year.
func (c *NagerClient) PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	req := Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/PublicHolidays/" + strconv.Itoa(year) + "/" + url.PathEscape(countryCode),
	}

	var holidays []Holiday
	if err := doJSON(ctx, c.client, req, &holidays); err != nil {
		return nil, fmt.Errorf("nager public holidays for %s/%d: %w", countryCode, year, err)
	}
	return holidays, nil
}
