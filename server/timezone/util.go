package timezone

import (
	"fmt"
	"time"
)

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

// DefaultTimezone is the civil zone the widget renders in when the profile
// does not override it.
const DefaultTimezone = "Europe/London"

// ParseTimezone parses an IANA timezone identifier (e.g., "Europe/London").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
// Use this for identifiers that are known to be valid at compile time.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	if tz == "" || tz == "UTC" {
		return true
	}

	_, err := time.LoadLocation(tz)
	return err == nil
}

// FormatHM renders an instant as a wall-clock "HH:MM" string for the widget.
// The zero instant renders as the empty string, which is how lesson fields
// stay blank on days with no timetable.
func FormatHM(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// FormatDate renders an instant's calendar date as "YYYY-MM-DD".
// The zero instant renders as the empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
