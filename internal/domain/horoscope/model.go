package horoscope

import (
	"errors"
	"fmt"

	"github.com/soulsync/soulsync/internal/domain/zodiac"
)

// Variant selects which horoscope page to read.
type Variant string

const (
	VariantToday    Variant = "today"
	VariantTomorrow Variant = "tomorrow"
	VariantMonthly  Variant = "monthly"
)

// ParseVariant validates the type query parameter.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(raw) {
	case VariantToday, VariantTomorrow, VariantMonthly:
		return Variant(raw), nil
	default:
		return "", fmt.Errorf("unknown horoscope type %q", raw)
	}
}

// ErrUnparseable is returned when a fetched page yields none of the expected
// fields, usually because the site changed its markup.
var ErrUnparseable = errors.New("horoscope page did not match the expected layout")

// Daily holds the six topics of a today/tomorrow horoscope.
type Daily struct {
	Personal string `json:"personal"`
	Travel   string `json:"travel"`
	Money    string `json:"money"`
	Career   string `json:"career"`
	Health   string `json:"health"`
	Emotions string `json:"emotions"`
}

// Monthly holds the ten topic/details fields of a monthly horoscope.
type Monthly struct {
	LoveRelationship        string `json:"loveRelationship"`
	LoveRelationshipDetails string `json:"loveRelationshipDetails"`
	HealthWellness          string `json:"healthWellness"`
	HealthDetails           string `json:"healthDetails"`
	CareerEducation         string `json:"careerEducation"`
	CareerDetails           string `json:"careerDetails"`
	MoneyFinances           string `json:"moneyFinances"`
	MoneyDetails            string `json:"moneyDetails"`
	ImportantDates          string `json:"importantDates"`
	TipOfTheMonth           string `json:"tipOfTheMonth"`
}

// Result is the response payload for the horoscope route. Horoscope carries
// a *Daily, a *Monthly, or a cached json.RawMessage; all serialize to the
// same wire shape.
type Result struct {
	ZodiacSign zodiac.Sign `json:"zodiacSign"`
	Horoscope  any         `json:"horoscope"`
}
