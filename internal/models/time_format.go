package models

import "time"

// DisplayTimeFormat is the fixed presentation format for all timestamps
// returned by the API (UK convention, day first).
const DisplayTimeFormat = "02/01/2006 15:04:05"

var ukLocation *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		// tzdata missing on the host; wall-clock times degrade to UTC.
		loc = time.UTC
	}
	ukLocation = loc
}

// UKNow returns the current time in the Europe/London timezone.
func UKNow() time.Time {
	return time.Now().In(ukLocation)
}

// FormatUK renders a timestamp in the fixed display format.
func FormatUK(t time.Time) string {
	return t.In(ukLocation).Format(DisplayTimeFormat)
}

// FormatUKPtr renders an optional timestamp, keeping nil as nil.
func FormatUKPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatUK(*t)
	return &s
}
