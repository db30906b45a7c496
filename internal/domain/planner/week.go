package planner

import "time"

// isoWeekStart returns the Monday of the given ISO-8601 week in the given
// year. January 4th always falls in week 1, so the Monday of week 1 is found
// by walking back from it; every later week is a whole number of days ahead.
// Pure calendar arithmetic, no timezone dependency beyond UTC dates.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)

	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -offset)

	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// weekDateRange returns the Monday and Sunday bounding the given ISO week.
func weekDateRange(year, week int) (start, end time.Time) {
	start = isoWeekStart(year, week)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// daysUntil returns the whole calendar days from now until the given date.
// Both instants are truncated to their UTC calendar date first, so an exam
// later today counts as zero days away and yesterday's exam as negative.
func daysUntil(now, date time.Time) int {
	nowDate := truncateToDate(now)
	targetDate := truncateToDate(date)

	return int(targetDate.Sub(nowDate).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
