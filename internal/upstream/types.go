package upstream

import "encoding/json"

// AvailableCountry is one entry of the Nager.Date country list.
type AvailableCountry struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
}

// CountryInfo is the Nager.Date country info payload.
// Borders is kept raw: Nager returns nested country objects, and the
// value is only ever passed through.
type CountryInfo struct {
	CommonName   string          `json:"commonName"`
	OfficialName string          `json:"officialName"`
	CountryCode  string          `json:"countryCode"`
	Region       string          `json:"region"`
	Borders      json.RawMessage `json:"borders"`
}

// FlagData is the data section of a CountriesNow flag response.
type FlagData struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

// FlagResponse is the CountriesNow flag lookup payload.
type FlagResponse struct {
	Error bool      `json:"error"`
	Msg   string    `json:"msg"`
	Data  *FlagData `json:"data"`
}

// Holiday is a public holiday as returned by Nager.Date.
type Holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	LaunchYear  *int     `json:"launchYear"`
	Types       []string `json:"types"`
}

type flagRequest struct {
	ISO2 string `json:"iso2"`
}

type populationRequest struct {
	Country string `json:"country"`
}
