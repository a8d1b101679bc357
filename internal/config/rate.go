// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rate is a request budget: Count requests per Period.
type Rate struct {
	Count  int
	Period time.Duration
}

var ratePeriods = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate parses "<n>/<second|minute|hour|day>", e.g. "10/minute".
func ParseRate(s string) (Rate, error) {
	count, unit, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q: want <n>/<unit>", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n < 1 {
		return Rate{}, fmt.Errorf("invalid rate %q: count must be a positive integer", s)
	}
	period, ok := ratePeriods[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q: unknown unit %q", s, unit)
	}
	return Rate{Count: n, Period: period}, nil
}

// Interval returns the average spacing between requests.
func (r Rate) Interval() time.Duration {
	return r.Period / time.Duration(r.Count)
}
