package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatePassesThroughTime(t *testing.T) {
	want := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)
	got, err := ParseDate(want)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2023-04-05", time.Date(2023, 4, 5, 0, 0, 0, 0, time.Local)},
		{"2023-04-05 15:04", time.Date(2023, 4, 5, 15, 4, 0, 0, time.Local)},
		{"2023-04-05_15:04", time.Date(2023, 4, 5, 15, 4, 0, 0, time.Local)},
		{"  2023-04-05  ", time.Date(2023, 4, 5, 0, 0, 0, 0, time.Local)},
		{"April 5, 2023", time.Date(2023, 4, 5, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(tc.want), "input %q: got %v want %v", tc.in, got, tc.want)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("not a date at all")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("   ")
	assert.Error(t, err)
}
