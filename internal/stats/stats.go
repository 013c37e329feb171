// Package stats defines the persisted session-record shape, the calendar
// window rollups, and the productivity score.
package stats

import (
	"math"
	"time"
)

// LanguageTime is the accounted tick count for one language identifier.
type LanguageTime struct {
	Language string `json:"language"`
	Time     int    `json:"time"`
}

// Record is the durable, immutable-once-written result of flushing a
// session. TotalTime is wall-clock seconds since session start, not the sum
// of the accumulators: idle gaps are real elapsed time but neither human nor
// AI time.
type Record struct {
	ID           string         `json:"id"`
	Date         time.Time      `json:"date"`
	HumanTime    int            `json:"humanTime"`
	AITime       int            `json:"aiTime"`
	TotalTime    float64        `json:"totalTime"`
	Languages    []LanguageTime `json:"languages"`
	Productivity int            `json:"productivity"`
}

// Aggregate is a derived, non-persisted summary of records over a calendar
// window. Productivity is the mean of the per-record scores, 0 when the
// window is empty.
type Aggregate struct {
	HumanTime    int     `json:"humanTimeSeconds"`
	AITime       int     `json:"aiTimeSeconds"`
	TotalTime    float64 `json:"totalTimeSeconds"`
	Productivity int     `json:"productivity"`
}

// Productivity scores a session 0-100 from its accumulators: 70% weight on
// the human-to-total ratio, 30% on consistency, where a full hour of
// combined coding saturates the consistency term. Zero when no coding time
// was accrued.
func Productivity(humanSeconds, aiSeconds int) int {
	total := humanSeconds + aiSeconds
	if total == 0 {
		return 0
	}
	humanRatio := float64(humanSeconds) / float64(total)
	consistency := math.Min(float64(total)/3600, 1)
	return int(math.Round((humanRatio*0.7 + consistency*0.3) * 100))
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the first day (Sunday) of t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// Today aggregates the records whose date falls on now's calendar day.
func Today(records []Record, now time.Time) Aggregate {
	return summarize(records, func(d time.Time) bool {
		return SameDay(now, d)
	})
}

// Week aggregates the records from the start of now's week onward.
func Week(records []Record, now time.Time) Aggregate {
	start := StartOfWeek(now)
	return summarize(records, func(d time.Time) bool {
		return !d.Before(start)
	})
}

// Month aggregates the records from the first of now's month onward.
func Month(records []Record, now time.Time) Aggregate {
	start := StartOfMonth(now)
	return summarize(records, func(d time.Time) bool {
		return !d.Before(start)
	})
}

// summarize is a pure, read-only fold over the log.
func summarize(records []Record, include func(time.Time) bool) Aggregate {
	var agg Aggregate
	count := 0
	sum := 0
	for _, r := range records {
		if !include(r.Date) {
			continue
		}
		agg.HumanTime += r.HumanTime
		agg.AITime += r.AITime
		agg.TotalTime += r.TotalTime
		sum += r.Productivity
		count++
	}
	if count > 0 {
		agg.Productivity = int(math.Round(float64(sum) / float64(count)))
	}
	return agg
}
