package timeutil

import "time"

// AddMonths returns t moved n calendar months forward (or backward for a
// negative n), carrying year overflow. When the original day of month does
// not exist in the target month the result is clamped to the last valid
// day, so Jan 31 plus one month is Feb 28, or Feb 29 in a leap year.
//
// time.AddDate cannot be used here: it normalizes the overflow instead,
// turning Jan 31 + 1 month into Mar 2 or Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}

	m := time.Month(month + 1)
	day := t.Day()
	if last := lastDayOfMonth(year, m); day > last {
		day = last
	}

	return time.Date(year, m, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, m time.Month) int {
	// Day 0 of the next month.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
