// Package timeutil computes remaining-time breakdowns for countdown
// displays and urgency bucketing. Everything here is pure; callers supply
// both timestamps and re-evaluate on their own cadence.
package timeutil

import "time"

type Breakdown struct {
	Days                  int
	Hours                 int
	Minutes               int
	Seconds               int
	IsOverdue             bool
	TotalMinutesRemaining int
}

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyCaution  Urgency = "caution"
	UrgencyNormal   Urgency = "normal"
)

const (
	criticalThresholdMinutes = 60
	warningThresholdMinutes  = 24 * 60
	cautionThresholdMinutes  = 3 * 24 * 60
)

// Remaining decomposes due-now into whole days, hours, minutes and seconds.
// Each field is the remainder after larger units are removed, so the parts
// recompose exactly to floor(due-now in seconds).
func Remaining(now, due time.Time) Breakdown {
	diff := due.Sub(now)
	if diff <= 0 {
		return Breakdown{IsOverdue: true}
	}

	totalSeconds := int(diff / time.Second)
	return Breakdown{
		Days:                  totalSeconds / 86400,
		Hours:                 totalSeconds % 86400 / 3600,
		Minutes:               totalSeconds % 3600 / 60,
		Seconds:               totalSeconds % 60,
		TotalMinutesRemaining: int(diff / time.Minute),
	}
}

// UrgencyOf buckets a breakdown for display. Overdue tasks are critical.
func UrgencyOf(b Breakdown) Urgency {
	if b.IsOverdue {
		return UrgencyCritical
	}
	switch {
	case b.TotalMinutesRemaining <= criticalThresholdMinutes:
		return UrgencyCritical
	case b.TotalMinutesRemaining <= warningThresholdMinutes:
		return UrgencyWarning
	case b.TotalMinutesRemaining <= cautionThresholdMinutes:
		return UrgencyCaution
	default:
		return UrgencyNormal
	}
}
