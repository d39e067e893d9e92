package timestamp_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-todo-web/internal/timestamp"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00.123456", time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T12:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := timestamp.Parse(tt.in)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
		})
	}

	_, err := timestamp.Parse("yesterday")
	require.Error(t, err)
}

func TestJSON(t *testing.T) {
	var body struct {
		Created timestamp.Time  `json:"created_at"`
		Due     *timestamp.Time `json:"due_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"created_at":"2024-05-01T10:00:00.123456","due_date":null}`), &body))
	require.Equal(t, 2024, body.Created.Year())
	require.Nil(t, body.Due)

	out, err := json.Marshal(timestamp.New(time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))))
	require.NoError(t, err)
	require.JSONEq(t, `"2024-05-01T10:30:00"`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"created_at":12}`), &body))
}
