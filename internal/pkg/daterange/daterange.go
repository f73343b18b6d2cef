// Package daterange computes the reporting windows shared by the report use
// cases.
package daterange

import "time"

// LastMonth returns the trailing calendar month relative to now: start is the
// first instant of the month immediately preceding now's month, end is the last
// instant of that same month. This is a fixed calendar month, never a rolling
// 30-day window.
func LastMonth(now time.Time) (start, end time.Time) {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start = firstOfCurrent.AddDate(0, -1, 0)
	end = firstOfCurrent.Add(-time.Millisecond)
	return start, end
}
