package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(date(2024, time.January, 13))) // Saturday
	assert.True(t, IsWeekend(date(2024, time.January, 14))) // Sunday
	assert.False(t, IsWeekend(date(2024, time.January, 15)))
}

func TestIsBusinessDay(t *testing.T) {
	holidays := NewHolidaySet(date(2024, time.January, 1))

	assert.False(t, IsBusinessDay(date(2024, time.January, 1), holidays))
	assert.True(t, IsBusinessDay(date(2024, time.January, 2), holidays))
	assert.False(t, IsBusinessDay(date(2024, time.January, 6), holidays)) // Saturday
	assert.True(t, IsBusinessDay(date(2024, time.January, 2), nil))
}

func TestBusinessDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		holidays HolidaySet
		want     int
	}{
		{
			name:  "same day is zero for any date",
			start: date(2024, time.January, 15),
			end:   date(2024, time.January, 15),
			want:  0,
		},
		{
			name:  "start after end is zero",
			start: date(2024, time.January, 20),
			end:   date(2024, time.January, 15),
			want:  0,
		},
		{
			name:  "single following business day",
			start: date(2024, time.January, 15),
			end:   date(2024, time.January, 16),
			want:  1,
		},
		{
			name:  "weekend excluded",
			start: date(2024, time.January, 12), // Friday
			end:   date(2024, time.January, 15), // Monday
			want:  1,
		},
		{
			name:     "holiday excluded",
			start:    date(2024, time.January, 15),
			end:      date(2024, time.January, 19),
			holidays: NewHolidaySet(date(2024, time.January, 17)),
			want:     3,
		},
		{
			name:  "full week",
			start: date(2024, time.January, 14), // Sunday
			end:   date(2024, time.January, 21), // next Sunday
			want:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDaysBetween(tt.start, tt.end, tt.holidays))
		})
	}
}

func TestBusinessDaysBetweenSameDayAnyHolidaySet(t *testing.T) {
	d := date(2024, time.June, 3)
	assert.Equal(t, 0, BusinessDaysBetween(d, d, nil))
	assert.Equal(t, 0, BusinessDaysBetween(d, d, NewHolidaySet(d)))
}

func TestBusinessDayBefore(t *testing.T) {
	holidays := NewHolidaySet(date(2024, time.January, 18))

	// n=0 returns the deadline itself
	deadline := date(2024, time.January, 22) // Monday
	assert.Equal(t, deadline, BusinessDayBefore(deadline, 0, nil))

	// one business day before Monday is Friday
	assert.Equal(t, date(2024, time.January, 19), BusinessDayBefore(deadline, 1, nil))

	// skips both the weekend and the holiday
	assert.Equal(t, date(2024, time.January, 17), BusinessDayBefore(deadline, 2, holidays))
}

func TestBusinessDayBeforeRoundTrip(t *testing.T) {
	// BusinessDaysBetween(BusinessDayBefore(d, n), d) == n for business-day deadlines
	deadline := date(2024, time.March, 20) // Wednesday
	for n := 0; n <= 10; n++ {
		before := BusinessDayBefore(deadline, n, nil)
		assert.Equal(t, n, BusinessDaysBetween(before, deadline, nil), "n=%d", n)
	}
}
