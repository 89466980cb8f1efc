// Package session names the trading session a UTC instant falls in.
package session

import "time"

// Session is a trading session label.
type Session string

const (
	London  Session = "LONDON"
	NewYork Session = "NY"
	Other   Session = "OTHER"
)

// Session windows in UTC hours, inclusive of both ends.
const (
	LondonStartHour = 7
	LondonEndHour   = 16
	NYStartHour     = 12
	NYEndHour       = 21
)

// At returns the session for t. London wins where it overlaps New York.
func At(t time.Time) Session {
	utc := t.UTC()
	minutes := utc.Hour()*60 + utc.Minute()
	// seconds past the closing minute fall outside the window
	atBoundary := utc.Second() == 0 && utc.Nanosecond() == 0

	switch {
	case within(minutes, atBoundary, LondonStartHour, LondonEndHour):
		return London
	case within(minutes, atBoundary, NYStartHour, NYEndHour):
		return NewYork
	default:
		return Other
	}
}

// Now returns the current session.
func Now() Session {
	return At(time.Now())
}

func within(minutes int, atBoundary bool, startHour, endHour int) bool {
	start := startHour * 60
	end := endHour * 60

	if minutes < start || minutes > end {
		return false
	}

	return minutes < end || atBoundary
}
