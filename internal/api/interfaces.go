package api

import (
	"context"

	"github.com/neexbeast/country-calendar/internal/country"
	"github.com/neexbeast/country-calendar/internal/upstream"
)

// CountryService defines the country lookups needed by handlers.
type CountryService interface {
	AvailableCountries(ctx context.Context) ([]upstream.AvailableCountry, error)
	CountryInfo(ctx context.Context, countryCode string) (*country.Info, error)
}

// CalendarService defines the calendar operations needed by handlers.
type CalendarService interface {
	AddHolidays(ctx context.Context, userID, countryCode string, year int, names []string) ([]upstream.Holiday, error)
	Holidays(ctx context.Context, userID string) ([]upstream.Holiday, error)
}
