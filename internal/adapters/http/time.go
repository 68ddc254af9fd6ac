package http

import (
	"errors"
	"time"
)

var errNoTime = errors.New("no timestamp")

// parseAPITime parses the backend's timestamp form. The API emits RFC 3339;
// older records may lack the timezone suffix.
func parseAPITime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errNoTime
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
