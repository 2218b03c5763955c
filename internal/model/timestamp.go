package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ISO-8601 forms accepted for stored dates. Forms without an offset are
// read as UTC.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseTimestamp parses an ISO-8601 date or date-time. An empty string is the
// zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// UnmarshalJSON reads fork_date with ParseTimestamp instead of the strict
// RFC 3339 decoder of time.Time.
func (p *Participant) UnmarshalJSON(data []byte) error {
	type plain Participant
	aux := struct {
		*plain
		ForkDate *string `json:"fork_date"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.ForkDate = time.Time{}
	if aux.ForkDate != nil {
		t, err := ParseTimestamp(*aux.ForkDate)
		if err != nil {
			return fmt.Errorf("fork_date: %w", err)
		}
		p.ForkDate = t
	}
	return nil
}
