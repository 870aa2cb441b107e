package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframe_Range(t *testing.T) {
	now := time.Date(2024, time.January, 20, 15, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		tf        Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}{
		{TimeframeThisMonth, day(2024, time.January, 1), day(2024, time.January, 31)},
		{TimeframeLastMonth, day(2023, time.December, 1), day(2023, time.December, 31)},
		{TimeframeThisYear, day(2024, time.January, 1), day(2024, time.December, 31)},
		{TimeframeLastYear, day(2023, time.January, 1), day(2023, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			start, end, ok := tt.tf.Range(now)
			assert.True(t, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	_, _, ok := TimeframeAll.Range(now)
	assert.False(t, ok)
}

func TestTimeframe_Next(t *testing.T) {
	assert.Equal(t, TimeframeThisMonth, TimeframeAll.Next())
	assert.Equal(t, TimeframeAll, TimeframeLastYear.Next())
}
