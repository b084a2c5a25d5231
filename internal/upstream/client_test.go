package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/country-calendar/internal/upstream"
)

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNagerClient_AvailableCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AvailableCountries", r.URL.Path)
		jsonHandler(http.StatusOK, `[{"countryCode":"US","name":"United States"}]`)(w, r)
	}))
	defer srv.Close()

	c := upstream.NewNagerClient(srv.URL, time.Second)
	countries, err := c.AvailableCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "US", countries[0].CountryCode)
}

func TestNagerClient_CountryInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CountryInfo/DE", r.URL.Path)
		jsonHandler(http.StatusOK, `{"commonName":"Germany","officialName":"Federal Republic of Germany","countryCode":"DE","region":"Europe","borders":[{"commonName":"Austria","countryCode":"AT","borders":null}]}`)(w, r)
	}))
	defer srv.Close()

	c := upstream.NewNagerClient(srv.URL+"/", time.Second)
	info, err := c.CountryInfo(context.Background(), "DE")
	require.NoError(t, err)
	assert.Equal(t, "Germany", info.CommonName)
	assert.JSONEq(t, `[{"commonName":"Austria","countryCode":"AT","borders":null}]`, string(info.Borders))
}

func TestNagerClient_PublicHolidays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PublicHolidays/2025/US", r.URL.Path)
		jsonHandler(http.StatusOK, `[{"date":"2025-01-01","localName":"New Year's Day","name":"New Year's Day","countryCode":"US","global":true,"counties":null,"launchYear":null,"types":["Public"]}]`)(w, r)
	}))
	defer srv.Close()

	c := upstream.NewNagerClient(srv.URL, time.Second)
	holidays, err := c.PublicHolidays(context.Background(), 2025, "US")
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "New Year's Day", holidays[0].Name)
	assert.Nil(t, holidays[0].LaunchYear)
}

func TestNagerClient_NotFoundCarriesRequest(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusNotFound, ``))
	defer srv.Close()

	c := upstream.NewNagerClient(srv.URL, time.Second)
	_, err := c.CountryInfo(context.Background(), "XX")
	require.Error(t, err)

	var httpErr *upstream.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	require.NotNil(t, httpErr.Request)
	assert.Equal(t, http.MethodGet, httpErr.Request.Method)
	assert.Equal(t, srv.URL+"/CountryInfo/XX", httpErr.Request.URL)
	assert.Nil(t, httpErr.Request.Body)
}

func TestCountriesNowClient_Flag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/countries/flag/images", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BR", body["iso2"])
		jsonHandler(http.StatusOK, `{"error":false,"msg":"ok","data":{"name":"Brazil","flag":"https://x/br.svg","iso2":"BR","iso3":"BRA"}}`)(w, r)
	}))
	defer srv.Close()

	c := upstream.NewCountriesNowClient(srv.URL, time.Second)
	flag, err := c.Flag(context.Background(), "BR")
	require.NoError(t, err)
	require.NotNil(t, flag.Data)
	assert.Equal(t, "https://x/br.svg", flag.Data.Flag)
}

func TestCountriesNowClient_PopulationVerbatim(t *testing.T) {
	payload := `{"error":false,"msg":"ok","data":{"country":"Brazil","populationCounts":[{"year":2018,"value":209469333}]}}`
	srv := httptest.NewServer(jsonHandler(http.StatusOK, payload))
	defer srv.Close()

	c := upstream.NewCountriesNowClient(srv.URL, time.Second)
	raw, err := c.Population(context.Background(), "Brazil")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}

func TestCountriesNowClient_ErrorBodyMessage(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusBadRequest, `{"error":true,"message":"country not found"}`))
	defer srv.Close()

	c := upstream.NewCountriesNowClient(srv.URL, time.Second)
	_, err := c.Population(context.Background(), "Atlantis")
	require.Error(t, err)

	var httpErr *upstream.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "country not found", httpErr.Message())
	assert.Equal(t, "Request failed with status code 400", httpErr.Error())
	assert.NotNil(t, httpErr.Request.Body)
}

func TestHTTPError_MessageNonJSON(t *testing.T) {
	e := &upstream.HTTPError{Status: http.StatusBadGateway, Body: []byte("<html>")}
	assert.Empty(t, e.Message())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := upstream.NewNagerClient(srv.URL, 50*time.Millisecond)
	_, err := c.AvailableCountries(context.Background())
	require.Error(t, err)

	var httpErr *upstream.HTTPError
	assert.False(t, errors.As(err, &httpErr), "timeouts are local errors")
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `not-json`))
	defer srv.Close()

	c := upstream.NewNagerClient(srv.URL, time.Second)
	_, err := c.AvailableCountries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestNewHTTPClient_DefaultTimeout(t *testing.T) {
	assert.Equal(t, upstream.DefaultTimeout, upstream.NewHTTPClient(0).Timeout)
	assert.Equal(t, time.Second, upstream.NewHTTPClient(time.Second).Timeout)
}
