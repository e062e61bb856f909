package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTimestampUnmarshalJSON(t *testing.T) {
	t.Run("NumericMillis", func(t *testing.T) {
		var ts EventTimestamp
		require.NoError(t, json.Unmarshal([]byte(`1700000000000`), &ts))

		assert.Equal(t, TimestampMillis, ts.Kind)
		millis, ok := ts.EpochMillis()
		require.True(t, ok)
		assert.Equal(t, int64(1700000000000), millis)
	})

	t.Run("FractionalMillis", func(t *testing.T) {
		var ts EventTimestamp
		require.NoError(t, json.Unmarshal([]byte(`1700000000000.75`), &ts))

		assert.Equal(t, TimestampMillis, ts.Kind)
		millis, ok := ts.EpochMillis()
		require.True(t, ok)
		assert.Equal(t, int64(1700000000000), millis)
	})

	t.Run("ISOString", func(t *testing.T) {
		var ts EventTimestamp
		require.NoError(t, json.Unmarshal([]byte(`"2023-11-14T22:13:20Z"`), &ts))

		assert.Equal(t, TimestampISO, ts.Kind)
		millis, ok := ts.EpochMillis()
		require.True(t, ok)
		assert.Equal(t, int64(1700000000000), millis)
	})

	t.Run("SecondsNanosObject", func(t *testing.T) {
		var ts EventTimestamp
		require.NoError(t, json.Unmarshal([]byte(`{"seconds":1700000000,"nanoseconds":500000000}`), &ts))

		assert.Equal(t, TimestampSecondsNanos, ts.Kind)
		millis, ok := ts.EpochMillis()
		require.True(t, ok)
		assert.Equal(t, int64(1700000000500), millis)
	})

	t.Run("SecondsWithoutNanos", func(t *testing.T) {
		var ts EventTimestamp
		require.NoError(t, json.Unmarshal([]byte(`{"seconds":1700000000}`), &ts))

		millis, ok := ts.EpochMillis()
		require.True(t, ok)
		assert.Equal(t, int64(1700000000000), millis)
	})

	t.Run("UnknownShapesAreInvalidNotErrors", func(t *testing.T) {
		for _, raw := range []string{`null`, `true`, `{"sec":1}`, `"yesterday at noon"`, `[1,2]`} {
			var ts EventTimestamp
			require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)

			if raw == `"yesterday at noon"` {
				// Decodes as ISO but can never normalize
				assert.Equal(t, TimestampISO, ts.Kind)
			}
			_, ok := ts.EpochMillis()
			assert.False(t, ok, raw)
		}
	})

	t.Run("EmbeddedInEvent", func(t *testing.T) {
		raw := `{"id":"n-1","timestamp":{"seconds":1700000000,"nanoseconds":0},"type":"like","message":"hello"}`

		var event NotificationEvent
		require.NoError(t, json.Unmarshal([]byte(raw), &event))

		assert.Equal(t, "n-1", event.ID)
		millis, ok := event.Timestamp.EpochMillis()
		require.True(t, ok)
		assert.Equal(t, int64(1700000000000), millis)
	})
}

func TestEventTimestampMarshalJSON(t *testing.T) {
	t.Run("NormalizesToMillis", func(t *testing.T) {
		data, err := json.Marshal(NewSecondsNanosTimestamp(1700000000, 0))
		require.NoError(t, err)
		assert.Equal(t, `1700000000000`, string(data))
	})

	t.Run("NativeTime", func(t *testing.T) {
		native := time.UnixMilli(1700000000000).UTC()
		data, err := json.Marshal(NewNativeTimestamp(native))
		require.NoError(t, err)
		assert.Equal(t, `1700000000000`, string(data))
	})

	t.Run("InvalidMarshalsAsNull", func(t *testing.T) {
		data, err := json.Marshal(EventTimestamp{})
		require.NoError(t, err)
		assert.Equal(t, `null`, string(data))
	})
}
