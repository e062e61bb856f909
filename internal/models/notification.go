package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Notification is the persisted notification record
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	SenderID  string     `json:"sender_id,omitempty"`
	RelatedID string     `json:"related_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// NotificationEvent is the raw live-stream record as delivered by the backing
// store. The core only observes, filters and sequences a read-only view of it.
type NotificationEvent struct {
	ID        string         `json:"id"`
	Timestamp EventTimestamp `json:"timestamp"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	SenderID  string         `json:"senderId,omitempty"`
	RelatedID string         `json:"relatedId,omitempty"`
}

// TimestampKind discriminates the known timestamp wire shapes
type TimestampKind int

const (
	TimestampInvalid TimestampKind = iota
	TimestampMillis
	TimestampISO
	TimestampSecondsNanos
	TimestampNative
)

// EventTimestamp is a tagged union of the timestamp shapes the schemaless
// store is known to deliver: a numeric epoch-millis value, an ISO-8601 string,
// a {seconds, nanoseconds} pair, or (server-side only) a native time.Time.
// The shape is decided here at the decoding boundary, never by shape-sniffing
// inside queue logic.
type EventTimestamp struct {
	Kind    TimestampKind
	Millis  int64
	ISO     string
	Seconds int64
	Nanos   int64
	Time    time.Time
}

// NewMillisTimestamp builds a numeric epoch-millis timestamp
func NewMillisTimestamp(millis int64) EventTimestamp {
	return EventTimestamp{Kind: TimestampMillis, Millis: millis}
}

// NewISOTimestamp builds an ISO-8601 string timestamp
func NewISOTimestamp(iso string) EventTimestamp {
	return EventTimestamp{Kind: TimestampISO, ISO: iso}
}

// NewSecondsNanosTimestamp builds a {seconds, nanoseconds} timestamp
func NewSecondsNanosTimestamp(seconds, nanos int64) EventTimestamp {
	return EventTimestamp{Kind: TimestampSecondsNanos, Seconds: seconds, Nanos: nanos}
}

// NewNativeTimestamp builds a timestamp from a native time.Time
func NewNativeTimestamp(t time.Time) EventTimestamp {
	return EventTimestamp{Kind: TimestampNative, Time: t}
}

// UnmarshalJSON decodes any of the known wire shapes. Unknown shapes decode as
// TimestampInvalid rather than failing the whole batch; the queue drops such
// events with a diagnostic.
func (t *EventTimestamp) UnmarshalJSON(data []byte) error {
	*t = EventTimestamp{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		t.Kind = TimestampISO
		t.ISO = s
	case '{':
		var sn struct {
			Seconds     *int64 `json:"seconds"`
			Nanoseconds *int64 `json:"nanoseconds"`
		}
		if err := json.Unmarshal(trimmed, &sn); err != nil || sn.Seconds == nil {
			return nil
		}
		t.Kind = TimestampSecondsNanos
		t.Seconds = *sn.Seconds
		if sn.Nanoseconds != nil {
			t.Nanos = *sn.Nanoseconds
		}
	default:
		var n int64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			// Fractional epoch millis also arrive from some clients
			var f float64
			if err := json.Unmarshal(trimmed, &f); err != nil {
				return nil
			}
			n = int64(f)
		}
		t.Kind = TimestampMillis
		t.Millis = n
	}

	return nil
}

// MarshalJSON encodes the timestamp as epoch millis when normalizable, null
// otherwise
func (t EventTimestamp) MarshalJSON() ([]byte, error) {
	if millis, ok := t.EpochMillis(); ok {
		return json.Marshal(millis)
	}
	return []byte("null"), nil
}

// EpochMillis normalizes the timestamp to epoch milliseconds. ok is false for
// unknown shapes and unparseable ISO strings; callers must drop such events
// instead of treating 0 as a sentinel.
func (t EventTimestamp) EpochMillis() (int64, bool) {
	switch t.Kind {
	case TimestampMillis:
		return t.Millis, true
	case TimestampISO:
		parsed, err := time.Parse(time.RFC3339, t.ISO)
		if err != nil {
			return 0, false
		}
		return parsed.UnixMilli(), true
	case TimestampSecondsNanos:
		return t.Seconds*1000 + t.Nanos/int64(time.Millisecond), true
	case TimestampNative:
		return t.Time.UnixMilli(), true
	}
	return 0, false
}
