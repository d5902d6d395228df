package utils

import "time"

// NormalizeUTC converts t to UTC, treating naive timestamps (no location
// metadata survives a DB round trip in SQLite) as already-UTC.
func NormalizeUTC(t time.Time) time.Time {
	return t.UTC()
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// StartOfUTCDay truncates t to midnight UTC.
func StartOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the last day of today's month and the first day of
// the following month, both at midnight UTC. December rolls the year over;
// time.Date handles that normalization.
func MonthBounds(today time.Time) (lastDay, firstOfNext time.Time) {
	y, m, _ := today.UTC().Date()
	firstOfNext = time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
	lastDay = firstOfNext.AddDate(0, 0, -1)
	return lastDay, firstOfNext
}

// StartOfISOWeek returns the Monday 00:00:00 UTC that opens t's ISO week.
func StartOfISOWeek(t time.Time) time.Time {
	day := StartOfUTCDay(t)
	// time.Weekday counts Sunday as 0; the weekly cap uses Monday-based weeks.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
