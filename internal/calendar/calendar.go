// Package calendar builds the quarter-hour timeline for a target year and
// classifies each sample by month, weekday and BDEW day-type, following the
// bundeseinheitliche (nationwide) German public holiday calendar.
package calendar

import "time"

// DayType is the BDEW workday/Saturday/Sunday-or-holiday classification.
type DayType int

const (
	Workday DayType = iota
	Saturday
	SundayOrHoliday
)

func (d DayType) String() string {
	switch d {
	case Workday:
		return "WT"
	case Saturday:
		return "SA"
	case SundayOrHoliday:
		return "FT"
	default:
		return "?"
	}
}

const samplesPerDay = 96 // 24h / 15min
const intervalMinutes = 15

// Sample describes one quarter-hour slot of a Timeline.
type Sample struct {
	T       time.Time
	Month   int
	Weekday time.Weekday
	Day     DayType
}

// Timeline is the immutable, ordered quarter-hour sequence covering one
// calendar year in local naive time.
type Timeline struct {
	Year    int
	Samples []Sample
}

// Len returns N: 35040 for common years, 35136 for leap years.
func (t *Timeline) Len() int { return len(t.Samples) }

// Build constructs the timeline for year Y.
func Build(year int) *Timeline {
	holidays := fixedAndMovableHolidays(year)
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
	n := int(end.Sub(start).Minutes()) / intervalMinutes

	samples := make([]Sample, 0, n)
	for cur := start; cur.Before(end); cur = cur.Add(time.Duration(intervalMinutes) * time.Minute) {
		samples = append(samples, Sample{
			T:       cur,
			Month:   int(cur.Month()),
			Weekday: cur.Weekday(),
			Day:     classify(cur, holidays),
		})
	}
	return &Timeline{Year: year, Samples: samples}
}

// IsLeap reports whether year is a leap year (for documentation/tests —
// Build already derives N directly from the date range, not from this).
func IsLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func classify(t time.Time, holidays map[string]bool) DayType {
	month, day := int(t.Month()), t.Day()
	key := dateKey(month, day)
	switch {
	case t.Weekday() == time.Sunday:
		return SundayOrHoliday
	case holidays[key]:
		return SundayOrHoliday
	case t.Weekday() == time.Saturday:
		return Saturday
	case month == 12 && (day == 24 || day == 31):
		// Invariant 11: 24/31 Dec count as Saturday unless they are
		// already a Sunday (handled above) or a holiday.
		return Saturday
	default:
		return Workday
	}
}

func dateKey(month, day int) string {
	return time.Month(month).String()[:3] + "-" + itoa(day)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [2]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// fixedAndMovableHolidays returns the nine bundeseinheitliche Feiertage for
// year as a set of "Mon-DD" keys.
func fixedAndMovableHolidays(year int) map[string]bool {
	easter := easterSunday(year)
	dates := []time.Time{
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),   // Neujahr
		easter.AddDate(0, 0, -2),                      // Karfreitag
		easter.AddDate(0, 0, 1),                        // Ostermontag
		time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),   // Tag der Arbeit
		easter.AddDate(0, 0, 39),                       // Christi Himmelfahrt
		easter.AddDate(0, 0, 50),                       // Pfingstmontag
		time.Date(year, 10, 3, 0, 0, 0, 0, time.UTC),  // Tag der Deutschen Einheit
		time.Date(year, 12, 25, 0, 0, 0, 0, time.UTC), // 1. Weihnachtsfeiertag
		time.Date(year, 12, 26, 0, 0, 0, 0, time.UTC), // 2. Weihnachtsfeiertag
	}
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[dateKey(int(d.Month()), d.Day())] = true
	}
	return set
}

// easterSunday computes the date of Easter Sunday via the Gauss/Meeus
// algorithm (anonymous Gregorian algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// RemapToYear re-indexes a reference weather-year slice of length len(src)
// onto a target length n: truncates when src is longer, and repeats the
// last 96 samples (one day) as many times as needed, then truncates, when
// src is shorter. This is the single shared implementation used by both the
// heat-pump temperature remap and the generation capacity-factor remap, so
// the leap/common boundary is handled identically everywhere.
func RemapToYear(src []float64, n int) []float64 {
	if len(src) == n {
		out := make([]float64, n)
		copy(out, src)
		return out
	}
	if len(src) > n {
		out := make([]float64, n)
		copy(out, src[:n])
		return out
	}
	out := make([]float64, 0, n)
	lastDay := src
	if len(src) > samplesPerDay {
		lastDay = src[len(src)-samplesPerDay:]
	}
	out = append(out, src...)
	for len(out) < n {
		remaining := n - len(out)
		if remaining >= len(lastDay) {
			out = append(out, lastDay...)
		} else {
			out = append(out, lastDay[:remaining]...)
		}
	}
	return out
}
