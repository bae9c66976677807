package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tiffin_backend/internal/models"
)

// The menu calendar is a recurring cycle: week labels ("week1") and day
// labels ("day2") address an offset from a fixed anchor date representing
// week 1, day 1. When the addressed date has already passed, the anchor
// rolls forward to day 30 of the next month and the offset is reapplied
// until the result is today or later.

var cycleAnchor = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

// ErrInvalidSlotLabel is returned when a menu's week/day label cannot be parsed.
var ErrInvalidSlotLabel = errors.New("invalid menu slot label")

func parseSlotLabel(label, prefix string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(label, prefix))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlotLabel, label)
	}
	return n, nil
}

// resolveDeliveryDate maps a 1-based week/day slot to the next calendar date
// on or after today. today must be truncated to midnight in the anchor's
// location.
func resolveDeliveryDate(weekNum, dayNum int, today time.Time) time.Time {
	offsetDays := (weekNum-1)*7 + (dayNum - 1)
	anchor := cycleAnchor
	target := anchor.AddDate(0, 0, offsetDays)
	for target.Before(today) {
		anchor = nextCycleAnchor(anchor)
		target = anchor.AddDate(0, 0, offsetDays)
	}
	return target
}

// nextCycleAnchor advances to day 30 of the following month; month 13 wraps
// to January of the next year. time.Date normalises impossible day-of-month
// combinations, so the result is always a valid date.
func nextCycleAnchor(anchor time.Time) time.Time {
	year, month := anchor.Year(), int(anchor.Month())
	month++
	if month > 12 {
		month = 1
		year++
	}
	return time.Date(year, time.Month(month), 30, 0, 0, 0, 0, anchor.Location())
}

// todayUK returns the current Europe/London calendar date at midnight in the
// anchor's location, so comparisons against resolved dates are day-granular.
func todayUK() time.Time {
	year, month, day := models.UKNow().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, cycleAnchor.Location())
}
