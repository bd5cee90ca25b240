package api

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of transaction dates (dd.MM.yyyy).
const DateLayout = "02.01.2006"

// ParseDate parses a wire date as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be dd.MM.yyyy", s)
	}
	return t, nil
}

// FormatDate renders t in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
