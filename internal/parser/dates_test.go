package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateEncodingsAgree(t *testing.T) {
	loc := LoadLocation(DefaultTimeZone)
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)

	inputs := []any{
		45413.0, // 2024-05-01
		"45413",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC),
		"01-05-2024",
		"01/05/2024 13:45",
		"1-5-2024 08:00:00",
		"01-05-2024 - 31-05-2024",
	}
	for _, in := range inputs {
		got, ok := ParseDate(in, loc)
		require.True(t, ok, "input %v", in)
		assert.True(t, want.Equal(got), "input %v: got %v", in, got)
	}
}

func TestParseDateRejects(t *testing.T) {
	loc := LoadLocation(DefaultTimeZone)
	for _, in := range []any{nil, "", "hello", "32-01-2024", "31-02-2024", "01-13-2024", -3.0, true} {
		_, ok := ParseDate(in, loc)
		assert.False(t, ok, "input %v", in)
	}
}

func TestParseDateTimeISO(t *testing.T) {
	loc := LoadLocation(DefaultTimeZone)
	got, ok := ParseDateTime("2024-05-01 19:30:15", loc)
	require.True(t, ok)
	assert.Equal(t, 19, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 15, got.Second())
	assert.InDelta(t, (19*3600+30*60+15)/86400.0, DayFraction(got), 1e-9)
}

func TestExcelSerialRoundTrip(t *testing.T) {
	loc := LoadLocation(DefaultTimeZone)
	assert.Equal(t, 45413.0, ExcelSerial(time.Date(2024, 5, 1, 22, 0, 0, 0, loc)))
	assert.Equal(t, 1.0, ExcelSerial(time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "19:30", FormatClock(19.5/24))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "01:00", FormatClock(1+1.0/24))
}

func TestLoadLocationFallback(t *testing.T) {
	loc := LoadLocation("Not/AZone")
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7*3600, offset)
}
