package utils

import (
	"time"

	logger "github.com/sirupsen/logrus"
)

// ResetTime resets the time component based on the granularity specified.
// Pass "second" to drop sub-second precision.
// Pass "day" to get local midnight in t's location.
func ResetTime(t time.Time, granularity string) time.Time {
	switch granularity {
	case "second":
		return t.Truncate(time.Second)
	case "day":
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	default:
		logger.WithField("granularity", granularity).Warn("Invalid granularity. Please use 'second' or 'day'.")
		return t
	}
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return ResetTime(t, "day")
}
