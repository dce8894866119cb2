// Package timezone provides the time handling for the Schoolglance server.
//
// Every instant the widget pipeline compares or renders lives in a single
// fixed civil zone. This package owns the conversion of heterogeneous
// upstream date/time strings into that zone, and the formatting of zoned
// instants back into the widget's display fields.
package timezone

import (
	"strings"
	"time"
)

// dateOnlyLayout matches bare calendar dates like "2024-03-05".
const dateOnlyLayout = "2006-01-02"

// generalLayouts is the ordered list of accepted date-time formats.
// Layouts without a zone offset parse as UTC, which encodes the rule that
// offset-less upstream values are assumed UTC before conversion.
var generalLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize parses raw into an instant in loc.
//
// A bare calendar date (exactly "YYYY-MM-DD") becomes 23:59:59 in loc on
// that date with dateOnly=true, so date-only due dates count for the whole
// day. Anything else is tried against generalLayouts; values carrying an
// offset are converted to loc, values without one are taken as UTC first.
//
// Empty and unparseable input report ok=false. There is no error value:
// absence is the only failure signal, and callers skip the record.
func Normalize(raw string, loc *time.Location) (t time.Time, dateOnly bool, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false, false
	}

	if isDateOnly(s) {
		if d, err := time.ParseInLocation(dateOnlyLayout, s, loc); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, loc), true, true
		}
		// Shaped like a date but not a valid one; fall through so inputs
		// such as "2024-13-40" fail the general layouts and report absent.
	}

	for _, layout := range generalLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return parsed.In(loc), false, true
	}

	return time.Time{}, false, false
}

// isDateOnly reports whether s has the exact shape of a bare calendar date:
// ten characters with dashes at positions 4 and 7.
func isDateOnly(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}
