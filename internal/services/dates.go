package services

import "time"

// All dates crossing the service boundary are date-only. They are normalized
// to UTC before comparing or persisting so that month boundaries do not drift
// for callers in non-UTC timezones.

// firstOfMonthUTC returns 00:00 UTC on the first day of t's month.
func firstOfMonthUTC(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// dateOnlyUTC strips the time-of-day component from t in UTC.
func dateOnlyUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
