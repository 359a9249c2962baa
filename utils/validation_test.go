package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"85997410934", "(85) 99741-0934", true},
		{"(85) 99741-0934", "(85) 99741-0934", true},
		{"+55 85 99741-0934", "(85) 99741-0934", true},
		{"8599741093", "", false},
		{"85897410934", "", false},
		{"05997410934", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatPhone(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ValidatePhone(tt.in), tt.in)
	}
}

func TestPhoneToE164(t *testing.T) {
	assert.Equal(t, "+5585997410934", PhoneToE164("(85) 99741-0934"))
	assert.Equal(t, "", PhoneToE164("123"))
}

func TestWeekBounds(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		day   time.Time
		start string
	}{
		{time.Date(2026, 10, 14, 15, 30, 0, 0, loc), "2026-10-12"}, // Wednesday
		{time.Date(2026, 10, 12, 0, 0, 0, 0, loc), "2026-10-12"},   // Monday
		{time.Date(2026, 10, 18, 23, 0, 0, 0, loc), "2026-10-12"},  // Sunday
	}
	for _, tt := range tests {
		start, end := WeekBounds(tt.day)
		assert.Equal(t, tt.start, start.Format("2006-01-02"))
		assert.Equal(t, 7*24*time.Hour, end.Sub(start))
	}
}

func TestParseBirthDate(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	d, err := ParseBirthDate("07/03/1995", now)
	require.NoError(t, err)
	assert.Equal(t, "07/03/1995", FormatDate(d))

	for _, bad := range []string{"31/02/1995", "1995-03-07", "01/01/2030", "01/01/1850"} {
		_, err := ParseBirthDate(bad, now)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}
