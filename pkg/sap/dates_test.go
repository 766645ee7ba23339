package sap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("/Date(1736121600000)/")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("2025-01-06")
	require.Error(t, err)
	_, err = ParseDate("/Date(abc)/")
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	clock, ok := ParseClock("PT08H30M00S")
	require.True(t, ok)
	require.Equal(t, "08:30", clock)

	clock, ok = ParseClock("PT00H00M00S")
	require.True(t, ok)
	require.Equal(t, "00:00", clock)

	_, ok = ParseClock("08:30")
	require.False(t, ok)
	_, ok = ParseClock("")
	require.False(t, ok)
}
