package timeutil

import "time"

var brasiliaLocation = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("America/Sao_Paulo", -3*60*60)
	}
	return loc
}

// Now returns the current time in Brasília timezone.
func Now() time.Time {
	return time.Now().In(brasiliaLocation)
}

// Location returns the Brasília location instance.
func Location() *time.Location {
	return brasiliaLocation
}

// CivilDate truncates t to midnight of its civil day in Brasília.
func CivilDate(t time.Time) time.Time {
	t = t.In(brasiliaLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, brasiliaLocation)
}

// DaysBetween returns the whole-day offset from a to b, both taken as
// civil dates in Brasília. Negative when b is before a. The difference is
// computed on calendar fields, so historical 23- and 25-hour DST days in
// the tzdata never shift the count.
func DaysBetween(a, b time.Time) int {
	return int(utcMidnight(b).Sub(utcMidnight(a)).Hours() / 24)
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.In(brasiliaLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
