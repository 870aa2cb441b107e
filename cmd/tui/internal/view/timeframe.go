package view

import "time"

// Timeframe is a predefined date range used to filter redemptions.
type Timeframe int

const (
	TimeframeAll Timeframe = iota
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeLastYear

	timeframeCount
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeLastYear:
		return "Last Year"
	}

	return "Unknown"
}

// Next cycles through the timeframes, wrapping around to TimeframeAll.
func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// Range returns the inclusive UTC date range for t relative to now. ok is false for
// TimeframeAll.
func (t Timeframe) Range(now time.Time) (start, end time.Time, ok bool) {
	y, m, _ := now.Date()

	switch t {
	case TimeframeThisMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case TimeframeLastMonth:
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case TimeframeThisYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	case TimeframeLastYear:
		start = time.Date(y-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
