package models

import (
	"fmt"
	"time"
)

// ParseExpiration parses an expiration date from request input. Dates carry
// month granularity in practice, so both "2006-01" and "2006-01-02" are
// accepted; a bare month normalizes to the first of the month. An empty
// value means the expiration is unknown.
func ParseExpiration(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("invalid expiration date %q: expected YYYY-MM or YYYY-MM-DD", value)
}
