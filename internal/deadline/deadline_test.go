package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxmind/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeMonthly(t *testing.T) {
	tests := []struct {
		name       string
		ref        time.Time
		wantDue    time.Time
		wantPeriod string
	}{
		{
			name:       "before the 20th stays in current month",
			ref:        date(2024, time.January, 15),
			wantDue:    date(2024, time.January, 20),
			wantPeriod: "12/2023",
		},
		{
			name:       "after the 20th rolls to next month",
			ref:        date(2024, time.January, 21),
			wantDue:    date(2024, time.February, 20),
			wantPeriod: "01/2024",
		},
		{
			name:       "exactly the 20th is still valid",
			ref:        date(2024, time.March, 20),
			wantDue:    date(2024, time.March, 20),
			wantPeriod: "02/2024",
		},
		{
			name:       "december rollover wraps the year",
			ref:        date(2023, time.December, 27),
			wantDue:    date(2024, time.January, 20),
			wantPeriod: "12/2023",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, period, ok := Compute(models.Monthly, tt.ref)
			require.True(t, ok)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantPeriod, period)
		})
	}
}

func TestComputeQuarterly(t *testing.T) {
	tests := []struct {
		name       string
		ref        time.Time
		wantDue    time.Time
		wantPeriod string
	}{
		{
			name:       "Q1 reference dues at end of April",
			ref:        date(2024, time.February, 1),
			wantDue:    date(2024, time.April, 30),
			wantPeriod: "Q1/2024",
		},
		{
			name:       "Q3 reference dues at end of October",
			ref:        date(2024, time.August, 10),
			wantDue:    date(2024, time.October, 31),
			wantPeriod: "Q3/2024",
		},
		{
			name:       "Q4 reference wraps to January with prior-year label",
			ref:        date(2024, time.November, 5),
			wantDue:    date(2025, time.January, 31),
			wantPeriod: "Q4/2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, period, ok := Compute(models.Quarterly, tt.ref)
			require.True(t, ok)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantPeriod, period)
		})
	}
}

func TestComputeYearly(t *testing.T) {
	due, period, ok := Compute(models.Yearly, date(2024, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 31), due)
	assert.Equal(t, "2024", period)
}

func TestComputeUnknownFrequency(t *testing.T) {
	_, _, ok := Compute(models.Frequency("weekly"), date(2024, time.June, 1))
	assert.False(t, ok)

	_, _, ok = Compute(models.Frequency(""), date(2024, time.June, 1))
	assert.False(t, ok)
}

func TestComputeNeverBeforeReference(t *testing.T) {
	// sweep a year of reference dates for every frequency
	start := date(2024, time.January, 1)
	for _, freq := range []models.Frequency{models.Monthly, models.Quarterly, models.Yearly} {
		for i := 0; i < 366; i++ {
			ref := start.AddDate(0, 0, i)
			due, _, ok := Compute(freq, ref)
			require.True(t, ok)
			assert.False(t, due.Before(ref), "freq=%s ref=%s due=%s", freq, ref, due)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	ref := date(2024, time.May, 17)
	due1, p1, _ := Compute(models.Quarterly, ref)
	due2, p2, _ := Compute(models.Quarterly, ref)
	assert.Equal(t, due1, due2)
	assert.Equal(t, p1, p2)
}
