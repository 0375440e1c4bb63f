package kundali

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soulsync/soulsync/pkg/jsonutil"
	"github.com/soulsync/soulsync/pkg/metrics"
)

// Request is the birth-detail payload posted by the front end. The form
// serializes most numbers as strings, so numeric fields bind flexibly.
type Request struct {
	Year      jsonutil.FlexInt   `json:"year"`
	Month     string             `json:"month"`
	Date      jsonutil.FlexInt   `json:"date"`
	Hours     jsonutil.FlexInt   `json:"hours"`
	Minutes   jsonutil.FlexInt   `json:"minutes"`
	Seconds   jsonutil.FlexInt   `json:"seconds"`
	Latitude  jsonutil.FlexFloat `json:"latitude"`
	Longitude jsonutil.FlexFloat `json:"longitude"`
	// Timezone is a pointer so an absent field and an explicit UTC offset of
	// zero stay distinguishable; only absence triggers the configured default.
	Timezone *jsonutil.FlexFloat `json:"timezone"`
	Name     string              `json:"name"`
}

// monthNumbers maps three-letter month names to 1-12. Unrecognized names
// fall back to January; the existing front end depends on that.
var monthNumbers = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// MonthNumber converts a month name to its 1-12 value, defaulting to January.
func MonthNumber(name string) int {
	if n, ok := monthNumbers[name]; ok {
		return n
	}
	return 1
}

// BirthQuery is the normalized form sent to the astrology API and stored as
// query metadata.
type BirthQuery struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Date      int     `json:"date"`
	Hours     int     `json:"hours"`
	Minutes   int     `json:"minutes"`
	Seconds   int     `json:"seconds"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  float64 `json:"timezone"`
	Name      string  `json:"name"`
}

// DateString renders the canonical zero-padded YYYY-MM-DD key date.
func (q BirthQuery) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", q.Year, q.Month, q.Date)
}

// ChartResult is the chart-image computation outcome. StatusCode is the
// upstream business status embedded in the response body, not the HTTP code.
type ChartResult struct {
	StatusCode int
	Output     string
}

// PlanetaryResult carries the planet-to-attributes mapping plus the raw
// upstream body, which feeds the interpretation prompt verbatim.
type PlanetaryResult struct {
	StatusCode int
	Output     map[string]json.RawMessage
	Raw        json.RawMessage
}

// ErrPlanetaryShape indicates the planets response did not carry the expected
// output array; the upstream contract is positional and occasionally shifts.
var ErrPlanetaryShape = errors.New("planetary response missing expected output element")

// QueryDetails is the normalized query persisted alongside each record, with
// the original month string kept for traceability.
type QueryDetails struct {
	BirthQuery
	OriginalMonth string `json:"originalMonth"`
}

// AstroRecord is the only durable entity: one row per (name, day), written
// with last-writer-wins upsert semantics.
type AstroRecord struct {
	Name         string                     `json:"name"`
	Day          int                        `json:"day"`
	Planets      map[string]json.RawMessage `json:"planets"`
	ChartURL     string                     `json:"chartUrl"`
	Date         string                     `json:"date"`
	UpdatedAt    time.Time                  `json:"timestamp"`
	QueryDetails QueryDetails               `json:"queryDetails"`
}

// Interpretation is the generated guidance text plus which model produced it.
type Interpretation struct {
	Content string
	Model   string
	Usage   metrics.TokenUsage
}

// Response is the payload of a successful chart generation.
type Response struct {
	ChartURL         string              `json:"chartUrl"`
	ArchivedChartKey string              `json:"archivedChartKey,omitempty"`
	Success          bool                `json:"success"`
	DBResponse       AstroRecord         `json:"dbResponse"`
	GeneratedContent string              `json:"generatedContent"`
	Model            string              `json:"model,omitempty"`
	Usage            *metrics.TokenUsage `json:"usage,omitempty"`
}
