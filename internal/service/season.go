package service

import "time"

// SeasonCalendar maps dates onto regular-season weeks
type SeasonCalendar struct {
	start time.Time
	weeks int
}

// NewSeasonCalendar creates a calendar starting at start with the given number of weeks
func NewSeasonCalendar(start time.Time, weeks int) SeasonCalendar {
	if weeks <= 0 {
		weeks = 18
	}
	return SeasonCalendar{start: start.UTC(), weeks: weeks}
}

// WeekOf returns the season and week containing now. ok is false before the
// season starts or after its last week.
func (c SeasonCalendar) WeekOf(now time.Time) (season, week int, ok bool) {
	now = now.UTC()
	if now.Before(c.start) {
		return 0, 0, false
	}

	days := int(now.Sub(c.start).Hours() / 24)
	week = days/7 + 1
	if week < 1 || week > c.weeks {
		return 0, 0, false
	}
	return c.start.Year(), week, true
}
