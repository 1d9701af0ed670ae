package calendar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildLength(t *testing.T) {
	cases := []struct {
		year int
		n    int
	}{
		{2023, 35040}, // common
		{2024, 35136}, // leap
		{2030, 35040},
		{2045, 35040},
	}
	for _, c := range cases {
		tl := Build(c.year)
		require.Equal(t, c.n, tl.Len(), "year %d", c.year)
		require.Equal(t, c.n == 35136, IsLeap(c.year), "year %d leap flag", c.year)
	}
}

func TestHolidayRuleDec24And31(t *testing.T) {
	for _, year := range []int{2023, 2024, 2027, 2028} {
		tl := Build(year)
		for _, s := range tl.Samples {
			if s.T.Month() == 12 && (s.T.Day() == 24 || s.T.Day() == 31) {
				if s.Weekday.String() != "Sunday" {
					require.Equal(t, Saturday, s.Day, "year %d date %s", year, s.T)
				}
			}
		}
	}
}

func TestEasterDependentHolidaysAreSundayOrHoliday(t *testing.T) {
	tl := Build(2030)
	easter := easterSunday(2030)
	goodFriday := easter.AddDate(0, 0, -2)
	for _, s := range tl.Samples {
		if s.T.Month() == goodFriday.Month() && s.T.Day() == goodFriday.Day() {
			require.Equal(t, SundayOrHoliday, s.Day)
			return
		}
	}
	t.Fatal("good friday sample not found")
}

func TestRemapToYearTruncatesLongerSeries(t *testing.T) {
	src := make([]float64, 100)
	for i := range src {
		src[i] = float64(i)
	}
	out := RemapToYear(src, 50)
	require.Len(t, out, 50)
	require.Equal(t, src[:50], out)
}

func TestRemapToYearRepeatsLastDayForShorterSeries(t *testing.T) {
	src := make([]float64, 96)
	for i := range src {
		src[i] = float64(i)
	}
	out := RemapToYear(src, 96+40)
	require.Len(t, out, 136)
	require.Equal(t, src, out[:96])
	require.Equal(t, src[:40], out[96:136])
}
