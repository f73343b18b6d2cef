package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLastMonth(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid month",
			now:       time.Date(2025, time.October, 15, 12, 30, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.September, 30, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:      "first day of month",
			now:       time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.September, 30, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:      "last day of month",
			now:       time.Date(2025, time.October, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.September, 30, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:      "january rolls back to december",
			now:       time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:      "march covers full february",
			now:       time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 999_000_000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := LastMonth(tt.now)
			assert.True(t, start.Equal(tt.wantStart), "start: got %v want %v", start, tt.wantStart)
			assert.True(t, end.Equal(tt.wantEnd), "end: got %v want %v", end, tt.wantEnd)
		})
	}
}

func TestLastMonthPreservesLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	now := time.Date(2025, time.October, 15, 0, 0, 0, 0, loc)

	start, end := LastMonth(now)
	assert.Equal(t, loc, start.Location())
	assert.Equal(t, loc, end.Location())
}
