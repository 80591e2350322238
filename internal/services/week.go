package services

import (
	"time"

	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
)

// DefaultCheckInWeeks caps proposals and overrides for athletes without a program.
const DefaultCheckInWeeks = 12

// ExpectedWeek returns the program week an athlete should be on: whole
// weeks elapsed since the assigned day, plus one, capped at duration.
// Days are counted on the calendar of loc. There is no lower bound, so an
// assignment dated after now yields zero or less.
func ExpectedWeek(assigned models.Date, duration int, now time.Time, loc *time.Location) int {
	days := models.Today(now, loc).DayNumber() - assigned.DayNumber()
	week := int(floorDiv(days, 7)) + 1
	if week > duration {
		return duration
	}
	return week
}

// ClampWeek bounds week to [1, max].
func ClampWeek(week, max int) int {
	if max < 1 {
		max = 1
	}
	if week < 1 {
		return 1
	}
	if week > max {
		return max
	}
	return week
}

// EndingSoon flags athletes on the last or second-to-last week of their
// program. Athletes without a program are never flagged.
func EndingSoon(currentWeek int, duration *int) bool {
	if duration == nil {
		return false
	}
	return currentWeek >= *duration-1
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
