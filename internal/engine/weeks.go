package engine

import (
	"time"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// Stats summarizes how much of the configured lifespan has elapsed.
type Stats struct {
	TotalWeeks     int     `json:"total_weeks"`
	WeeksLived     int     `json:"weeks_lived"`
	WeeksRemaining int     `json:"weeks_remaining"`
	PercentLived   float64 `json:"percent_lived"`
}

// Midnight strips the time of day, keeping the calendar date in t's own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b.
// Both dates are projected onto UTC midnights so a DST shift inside the
// interval cannot shave an hour off a full week.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// WeeksLived returns the number of complete weeks between the birth date and now.
// Time of day is ignored on both sides and the result never goes below zero.
func WeeksLived(birth, now time.Time) int {
	weeks := floorDiv(daysBetween(birth, now), config.DaysPerWeek)
	if weeks < 0 {
		return 0
	}
	return weeks
}

// TotalWeeks is the size of the grid for a target age. Ages below one fall back
// to the default target so callers never divide by zero.
func TotalWeeks(targetAge int) int {
	return normalizeTargetAge(targetAge) * config.GridColumns
}

func normalizeTargetAge(targetAge int) int {
	if targetAge < 1 {
		return config.DefaultTargetAge
	}
	return targetAge
}

// LifeStats computes lived/remaining weeks and the progress percentage.
// The percentage is capped at 100 once the target age has been outlived.
func LifeStats(birth time.Time, targetAge int, now time.Time) Stats {
	total := TotalWeeks(targetAge)
	lived := WeeksLived(birth, now)

	remaining := total - lived
	if remaining < 0 {
		remaining = 0
	}

	percent := float64(lived) / float64(total) * 100
	if percent > config.PercentCap {
		percent = config.PercentCap
	}

	return Stats{
		TotalWeeks:     total,
		WeeksLived:     lived,
		WeeksRemaining: remaining,
		PercentLived:   percent,
	}
}
