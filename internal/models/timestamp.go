package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Zone-less ISO timestamps are what the backend emits for naive datetimes; they are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is an ISO datetime from the backend. Raw keeps the received text.
type Timestamp struct {
	time.Time
	Raw string
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO 8601 datetimes.
func ParseTimestamp(value string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return Timestamp{Time: t, Raw: value}, nil
		}
	}
	return Timestamp{Raw: value}, fmt.Errorf("unrecognised timestamp %q", value)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(*raw)
	if err != nil {
		// Keep the raw text; an odd timestamp must not fail the whole payload
		*t = Timestamp{Raw: *raw}
		return nil
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
