package conversation

import (
	"encoding/json"
	"time"
)

// DisplayLayout renders timestamps the way a US-locale browser does.
const DisplayLayout = "1/2/2006, 3:04:05 PM"

// inputLayouts are tried in order when reading timestamps from the host.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTime renders t in loc for humans. A nil loc means time.Local.
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "Invalid Date"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// parseTime reads a JSON timestamp. Anything that is not a string in one
// of inputLayouts yields the zero time instead of an error.
func parseTime(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return time.Time{}
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
