package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RawInput accepts what a user typed into a numeric field: a JSON number,
// a string such as "12,5" or null. Interpretation is left to the service.
type RawInput string

func (r *RawInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected a number or string: %w", err)
		}
		*r = RawInput(n.String())
	}
	return nil
}

func (r RawInput) String() string {
	return string(r)
}

// ParseDate accepts "2006-01-02" or RFC3339
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}
