package zodiac

import "time"

// Sign is one of the twelve zodiac sign tags, lowercase.
type Sign string

const (
	Aries       Sign = "aries"
	Taurus      Sign = "taurus"
	Gemini      Sign = "gemini"
	Cancer      Sign = "cancer"
	Leo         Sign = "leo"
	Virgo       Sign = "virgo"
	Libra       Sign = "libra"
	Scorpio     Sign = "scorpio"
	Sagittarius Sign = "sagittarius"
	Capricorn   Sign = "capricorn"
	Aquarius    Sign = "aquarius"
	Pisces      Sign = "pisces"
)

type span struct {
	sign                 Sign
	startMonth, startDay int
	endMonth, endDay     int
}

// Capricorn wraps the year boundary; the disjunction below covers it because
// "month == startMonth && day >= startDay" matches December and
// "month == endMonth && day <= endDay" matches January.
var spans = []span{
	{Aries, 3, 21, 4, 19},
	{Taurus, 4, 20, 5, 20},
	{Gemini, 5, 21, 6, 20},
	{Cancer, 6, 21, 7, 22},
	{Leo, 7, 23, 8, 22},
	{Virgo, 8, 23, 9, 22},
	{Libra, 9, 23, 10, 22},
	{Scorpio, 10, 23, 11, 21},
	{Sagittarius, 11, 22, 12, 21},
	{Capricorn, 12, 22, 1, 19},
	{Aquarius, 1, 20, 2, 18},
	{Pisces, 2, 19, 3, 20},
}

// Resolve maps a calendar month/day to its zodiac sign. Dates no span claims
// fall through to Aries; callers rely on that fallback.
func Resolve(month, day int) Sign {
	for _, s := range spans {
		if (month == s.startMonth && day >= s.startDay) ||
			(month == s.endMonth && day <= s.endDay) ||
			(month > s.startMonth && month < s.endMonth) {
			return s.sign
		}
	}
	return Aries
}

// ResolveDate is a convenience wrapper over Resolve for time values.
func ResolveDate(t time.Time) Sign {
	return Resolve(int(t.Month()), t.Day())
}
