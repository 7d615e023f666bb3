// Package week derives the weekly partition key, display label and day
// indexing used to bucket all participant and gift records.
package week

import (
	"fmt"
	"regexp"
	"time"
)

// Policy is the week-boundary convention. Every caller derives keys, ranges
// and labels from the same Policy so the stored partitions never disagree.
type Policy struct {
	StartDay time.Weekday
}

// Default is the Monday-first convention.
var Default = Policy{StartDay: time.Monday}

// offset returns the 0..6 distance of wd from the policy's start day.
func (p Policy) offset(wd time.Weekday) int {
	return (int(wd) - int(p.StartDay) + 7) % 7
}

// Key returns the "YYYY-Www" partition key of t's calendar week:
// week = (offset of Jan 1 + days since Jan 1) / 7 + 1.
func (p Policy) Key(t time.Time) string {
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := t.YearDay() - 1
	week := (p.offset(yearStart.Weekday())+days)/7 + 1
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

// Range returns the start (midnight) and end (last ns) of t's week.
func (p Policy) Range(t time.Time) (start, end time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start = day.AddDate(0, 0, -p.offset(day.Weekday()))
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// KeyStart returns the first day (midnight, UTC) of the week a key names.
func (p Policy) KeyStart(key string) (time.Time, error) {
	if !ValidKey(key) {
		return time.Time{}, fmt.Errorf("malformed week key %q", key)
	}
	var year, wk int
	_, _ = fmt.Sscanf(key, "%d-W%d", &year, &wk)
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return yearStart.AddDate(0, 0, (wk-1)*7-p.offset(yearStart.Weekday())), nil
}

// ValidKey reports whether key has the "YYYY-Www" shape.
func ValidKey(key string) bool {
	return keyRegex.MatchString(key)
}

var keyRegex = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// DayIndex returns t's Monday-first day index 0..6.
//
// This is intentionally NOT policy-dependent: the DailyHours array layout is
// fixed at Monday..Sunday whatever key convention is configured.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Label returns the Korean week-of-month display label, e.g. "8월 3주차".
// Week-of-month is Monday-first, matching the main view's badge.
func Label(t time.Time) string {
	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	monIndex := (int(monthStart.Weekday()) + 6) % 7
	w := (monIndex+t.Day()-1)/7 + 1
	return fmt.Sprintf("%d월 %d주차", int(t.Month()), w)
}

// DayLabels are the Korean day-of-week headers, Monday-first.
var DayLabels = [7]string{"월", "화", "수", "목", "금", "토", "일"}
