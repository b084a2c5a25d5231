package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/neexbeast/country-calendar/internal/failure"
	"github.com/neexbeast/country-calendar/internal/upstream"
)

// Client-facing messages.
const (
	msgAvailableCountriesFailed = "Error getting available countries"
	msgUnknownError             = "Unknown error occurred"
	msgHolidaysAdded            = "Holidays added to the user calendar"
	msgAddHolidaysFailed        = "Error adding holidays to the calendar"
	msgInternalServerError      = "Internal server error"
	msgReadCalendarFailed       = "Error reading the user calendar"
)

var (
	countryInfoPolicy = failure.Policy{DescribeNotFound: true, Fallback: msgUnknownError}
	calendarPolicy    = failure.Policy{Fallback: msgInternalServerError}
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	countries CountryService
	calendar  CalendarService
	log       *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(countries CountryService, calendar CalendarService, log *slog.Logger) *Handlers {
	return &Handlers{
		countries: countries,
		calendar:  calendar,
		log:       log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type messageResponse struct {
	Message string `json:"message"`
}

// GetAvailableCountries handles GET /api/countries.
// Upstream failures are reported as a plain 500.
func (h *Handlers) GetAvailableCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countries.AvailableCountries(r.Context())
	if err != nil {
		h.log.Error("available countries failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgAvailableCountriesFailed})
		return
	}

	writeJSON(w, http.StatusOK, countries)
}

// GetCountryInfo handles GET /api/country-info/{countryCode}.
func (h *Handlers) GetCountryInfo(w http.ResponseWriter, r *http.Request) {
	countryCode := chi.URLParam(r, "countryCode")

	info, err := h.countries.CountryInfo(r.Context(), countryCode)
	if err != nil {
		f := failure.Classify(err)
		status, msg := f.Resolve(countryInfoPolicy)
		h.log.Error("country info failed", "country", countryCode, "kind", f.Kind, "status", status, "err", err)
		writeJSON(w, status, messageResponse{Message: msg})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

type addHolidaysRequest struct {
	CountryCode string   `json:"countryCode" validate:"required,alpha,len=2"`
	Year        int      `json:"year" validate:"required,gte=1,lte=9999"`
	Holidays    []string `json:"holidays"`
}

type calendarResponse struct {
	Message string             `json:"message,omitempty"`
	Events  []upstream.Holiday `json:"events"`
	Error   string             `json:"error,omitempty"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// AddHolidays handles POST /api/users/{userId}/calendar/holidays.
func (h *Handlers) AddHolidays(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req addHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeCalendarError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.writeCalendarError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	events, err := h.calendar.AddHolidays(r.Context(), userID, req.CountryCode, req.Year, req.Holidays)
	if err != nil {
		f := failure.Classify(err)
		status, msg := f.Resolve(calendarPolicy)
		h.log.Error("add holidays failed", "user", userID, "country", req.CountryCode, "year", req.Year, "kind", f.Kind, "err", err)
		h.writeCalendarError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, calendarResponse{Message: msgHolidaysAdded, Events: events})
}

func (h *Handlers) writeCalendarError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, calendarResponse{
		Message: msgAddHolidaysFailed,
		Events:  []upstream.Holiday{},
		Error:   detail,
	})
}

// validationMessage renders the first failed field of a validation error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	return err.Error()
}

// ListHolidays handles GET /api/users/{userId}/calendar/holidays.
func (h *Handlers) ListHolidays(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	events, err := h.calendar.Holidays(r.Context(), userID)
	if err != nil {
		h.log.Error("list holidays failed", "user", userID, "err", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgReadCalendarFailed})
		return
	}

	writeJSON(w, http.StatusOK, calendarResponse{Events: events})
}

type storePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks calendar store connectivity.
func HealthHandlerFunc(store storePinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Error("health check: calendar store ping failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":        "degraded",
				"calendarStore": "error",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status":        "ok",
			"calendarStore": "ok",
		})
	}
}
