// Package calendar attaches public holidays to per-user calendars.
package calendar

import (
	"context"
	"fmt"

	"github.com/neexbeast/country-calendar/internal/upstream"
)

// holidaySource is the interface satisfied by upstream.NagerClient.
type holidaySource interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]upstream.Holiday, error)
}

// Service fetches holidays and records them in a Store.
type Service struct {
	source holidaySource
	store  Store
}

// NewService constructs a Service. The store is owned by the caller.
func NewService(source holidaySource, store Store) *Service {
	return &Service{source: source, store: store}
}

// AddHolidays fetches the public holidays of countryCode for year, keeps
// only those named in names when names is non-empty, and appends them to
// the user's calendar. It returns the appended batch.
func (s *Service) AddHolidays(ctx context.Context, userID, countryCode string, year int, names []string) ([]upstream.Holiday, error) {
	holidays, err := s.source.PublicHolidays(ctx, year, countryCode)
	if err != nil {
		return nil, fmt.Errorf("fetching holidays for %s/%d: %w", countryCode, year, err)
	}

	events := FilterByName(holidays, names)

	if err := s.store.Append(ctx, userID, events); err != nil {
		return nil, fmt.Errorf("storing holidays for user %s: %w", userID, err)
	}

	return events, nil
}

// Holidays returns everything added to the user's calendar so far.
func (s *Service) Holidays(ctx context.Context, userID string) ([]upstream.Holiday, error) {
	events, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing holidays for user %s: %w", userID, err)
	}
	return events, nil
}

// FilterByName keeps the holidays whose local or English name is one of
// names. An empty names list keeps everything. The result is never nil.
func FilterByName(holidays []upstream.Holiday, names []string) []upstream.Holiday {
	if len(names) == 0 {
		if holidays == nil {
			return []upstream.Holiday{}
		}
		return holidays
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	kept := make([]upstream.Holiday, 0, len(holidays))
	for _, h := range holidays {
		_, local := wanted[h.LocalName]
		_, english := wanted[h.Name]
		if local || english {
			kept = append(kept, h)
		}
	}
	return kept
}
