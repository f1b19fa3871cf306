package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.Equal(t, want, ParseTimestamp("2024-05-01T10:00:00Z"))
	require.Equal(t, want, ParseTimestamp("2024-05-01T15:30:00+05:30"))
	require.Equal(t, want.Add(123456*time.Microsecond), ParseTimestamp(" 2024-05-01 10:00:00.123456 "))
	require.True(t, ParseTimestamp("yesterday").IsZero())
	require.True(t, ParseTimestamp("").IsZero())
}

func TestFormatTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	require.Equal(t, "2024-05-01T10:00:00Z", FormatTimestamp(time.Date(2024, 5, 1, 15, 30, 0, 0, ist)))
}
