package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, NewDate(2024, time.February, 29), d)

	for _, bad := range []string{"", "2024-13-01", "15/01/2024", "2024-1-5", "2023-02-29"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := MustParseDate("2024-03-01")

	assert.Equal(t, "2024-02-29", d.AddDays(-1).String())
	assert.Equal(t, "2025-03-01", d.AddDays(365).String())
	assert.True(t, d.AddDays(-1).Before(d))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.True(t, d.Equal(MustParseDate("2024-03-01")))
	assert.False(t, d.Before(d))
}

func TestDateOf(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	// 20:00 UTC on the 14th is already the 15th in India
	instant := time.Date(2024, time.January, 14, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-14", DateOf(instant).String())
	assert.Equal(t, "2024-01-15", DateOf(instant.In(ist)).String())
	assert.True(t, DateOf(time.Time{}).IsZero())
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: MustParseDate("2024-01-15")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-15"}`, string(b))

	b, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":null}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-15"}`), &p))
	assert.Equal(t, "2024-01-15", p.Date.String())

	require.NoError(t, json.Unmarshal([]byte(`{"date":""}`), &p))
	assert.True(t, p.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"tomorrow"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"date":20240115}`), &p))
}

func TestDateSQL(t *testing.T) {
	d := MustParseDate("2024-01-15")

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"time", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), "2024-01-15"},
		{"string date", "2024-01-15", "2024-01-15"},
		{"string timestamp", "2024-01-15 00:00:00+00:00", "2024-01-15"},
		{"bytes", []byte("2024-01-15T00:00:00Z"), "2024-01-15"},
		{"null", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Date
			require.NoError(t, got.Scan(tt.value))
			assert.Equal(t, tt.want, got.String())
		})
	}

	var bad Date
	assert.Error(t, bad.Scan(42))
	assert.Error(t, bad.Scan("15-01"))
}

func TestClock(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	clock := FixedClock(time.Date(2024, time.January, 15, 0, 30, 0, 0, ist))
	assert.Equal(t, "2024-01-15", clock.Today().String())

	defaultClock, err := NewClock("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, defaultClock.Location().String())

	utc, err := NewClock("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", utc.Location().String())

	_, err = NewClock("Asia/Kolkatta")
	assert.Error(t, err)
}
