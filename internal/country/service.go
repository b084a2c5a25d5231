package country

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/country-calendar/internal/failure"
	"github.com/neexbeast/country-calendar/internal/upstream"
)

// nagerAPI is the interface satisfied by upstream.NagerClient.
type nagerAPI interface {
	AvailableCountries(ctx context.Context) ([]upstream.AvailableCountry, error)
	CountryInfo(ctx context.Context, countryCode string) (*upstream.CountryInfo, error)
}

// countriesNowAPI is the interface satisfied by upstream.CountriesNowClient.
type countriesNowAPI interface {
	Flag(ctx context.Context, iso2 string) (*upstream.FlagResponse, error)
	Population(ctx context.Context, country string) (json.RawMessage, error)
}

// Info is the merged country view served by the API.
type Info struct {
	BorderCountries   json.RawMessage `json:"borderCountries"`
	PopulationHistory json.RawMessage `json:"populationHistory"`
	FlagURL           *string         `json:"flagUrl"`
}

// Service answers country lookups by combining Nager.Date and CountriesNow.
type Service struct {
	nager        nagerAPI
	countriesNow countriesNowAPI
}

// NewService constructs a Service over the two upstream clients.
func NewService(nager nagerAPI, countriesNow countriesNowAPI) *Service {
	return &Service{nager: nager, countriesNow: countriesNow}
}

// AvailableCountries passes the Nager.Date country list through.
func (s *Service) AvailableCountries(ctx context.Context) ([]upstream.AvailableCountry, error) {
	countries, err := s.nager.AvailableCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing available countries: %w", err)
	}
	if countries == nil {
		countries = []upstream.AvailableCountry{}
	}
	return countries, nil
}

// CountryInfo fetches country info and flag concurrently, then the
// population history keyed by the country's common name. Any failing call
// fails the whole lookup; the returned error keeps the upstream error in
// its chain for failure.Classify.
func (s *Service) CountryInfo(ctx context.Context, countryCode string) (*Info, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var info *upstream.CountryInfo
	var flag *upstream.FlagResponse

	g.Go(func() (err error) {
		defer recoverInto(&err, "country info")
		info, err = s.nager.CountryInfo(gCtx, countryCode)
		return err
	})

	g.Go(func() (err error) {
		defer recoverInto(&err, "flag")
		flag, err = s.countriesNow.Flag(gCtx, countryCode)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching country info for %s: %w", countryCode, err)
	}
	if info == nil {
		return nil, fmt.Errorf("empty country info for %s: %w", countryCode, failure.ErrUnknown)
	}

	population, err := s.countriesNow.Population(ctx, info.CommonName)
	if err != nil {
		return nil, fmt.Errorf("fetching population for %s: %w", countryCode, err)
	}

	return &Info{
		BorderCountries:   bordersOrEmpty(info.Borders),
		PopulationHistory: population,
		FlagURL:           flagURL(flag),
	}, nil
}

// recoverInto turns a panic in a fetch goroutine into an ErrUnknown error.
func recoverInto(err *error, what string) {
	if r := recover(); r != nil {
		slog.Error(what+" fetch panicked", "recover", r)
		*err = fmt.Errorf("%s fetch panicked: %w", what, failure.ErrUnknown)
	}
}

var emptyList = json.RawMessage("[]")

func bordersOrEmpty(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyList
	}
	return raw
}

func flagURL(flag *upstream.FlagResponse) *string {
	if flag == nil || flag.Data == nil || flag.Data.Flag == "" {
		return nil
	}
	u := flag.Data.Flag
	return &u
}
