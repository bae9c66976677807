package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParseSlotLabel(t *testing.T) {
	n, err := parseSlotLabel("week3", "week")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = parseSlotLabel("day10", "day")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	// Bare numbers are accepted; the prefix is simply absent.
	n, err = parseSlotLabel("2", "week")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = parseSlotLabel("weekx", "week")
	assert.ErrorIs(t, err, ErrInvalidSlotLabel)

	_, err = parseSlotLabel("", "day")
	assert.ErrorIs(t, err, ErrInvalidSlotLabel)
}

func TestResolveDeliveryDate_AnchorSlot(t *testing.T) {
	// Week 1 day 1 on the anchor date itself resolves to the anchor.
	today := date(2025, time.June, 30)
	got := resolveDeliveryDate(1, 1, today)
	assert.Equal(t, date(2025, time.June, 30), got)
}

func TestResolveDeliveryDate_OffsetWithinCycle(t *testing.T) {
	// Week 2 day 3 is nine days past the anchor.
	today := date(2025, time.June, 30)
	got := resolveDeliveryDate(2, 3, today)
	assert.Equal(t, date(2025, time.July, 9), got)
}

func TestResolveDeliveryDate_RollsToNextMonth(t *testing.T) {
	// The anchor slot has passed, so the cycle advances to day 30 of July.
	today := date(2025, time.July, 10)
	got := resolveDeliveryDate(1, 1, today)
	assert.Equal(t, date(2025, time.July, 30), got)
}

func TestResolveDeliveryDate_OffsetAfterRoll(t *testing.T) {
	// Week 2 day 1 from the June anchor lands on July 7, already past;
	// from the July 30 anchor it lands on August 6.
	today := date(2025, time.August, 5)
	got := resolveDeliveryDate(2, 1, today)
	assert.Equal(t, date(2025, time.August, 6), got)
}

func TestResolveDeliveryDate_WrapsYearEnd(t *testing.T) {
	// Every anchor through December 30 has passed, so the cycle wraps into
	// January of the following year.
	today := date(2025, time.December, 31)
	got := resolveDeliveryDate(1, 1, today)
	assert.Equal(t, date(2026, time.January, 30), got)
}

func TestResolveDeliveryDate_FebruaryNormalises(t *testing.T) {
	// Day 30 of February does not exist; time.Date pushes it into early
	// March, which keeps the cycle advancing.
	today := date(2026, time.February, 25)
	got := resolveDeliveryDate(1, 1, today)
	assert.Equal(t, date(2026, time.March, 2), got)
}

func TestNextCycleAnchor(t *testing.T) {
	assert.Equal(t, date(2025, time.July, 30), nextCycleAnchor(date(2025, time.June, 30)))
	assert.Equal(t, date(2026, time.January, 30), nextCycleAnchor(date(2025, time.December, 30)))
}
