package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShowDate(t *testing.T) {
	d, err := ParseShowDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d.String())
	assert.False(t, d.IsZero())

	_, err = ParseShowDate("2024-6-1")
	assert.Error(t, err)
	_, err = ParseShowDate("2024-02-30")
	assert.Error(t, err)
}

func TestDateOf_TruncatesToUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	d := DateOf(time.Date(2024, 6, 2, 3, 0, 0, 0, loc))
	assert.Equal(t, "2024-06-01", d.String())
}

func TestShowDate_Before(t *testing.T) {
	a, _ := ParseShowDate("2024-06-01")
	b, _ := ParseShowDate("2024-06-02")
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestShowDate_JSON(t *testing.T) {
	var v struct {
		Date ShowDate `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-01"}`), &v))
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-01"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"June 1"}`), &v))
}

func TestShowDate_SQL(t *testing.T) {
	d, _ := ParseShowDate("2024-06-01")
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", v)

	var s ShowDate
	require.NoError(t, s.Scan(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d, s)
	require.NoError(t, s.Scan([]byte("2024-06-01")))
	assert.Equal(t, d, s)
	require.NoError(t, s.Scan("2024-06-01"))
	assert.Equal(t, d, s)
	require.NoError(t, s.Scan(nil))
	assert.True(t, s.IsZero())
	assert.Error(t, s.Scan(42))
}
