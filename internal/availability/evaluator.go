package availability

import (
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// Evaluator decides whether a span of consecutive slots is bookable for one
// business day. It is pure given its inputs and is recomputed per candidate;
// grids are bounded by the business-hours window so this stays cheap.
type Evaluator struct {
	Open        types.TimeString // start of business hours
	Close       types.TimeString // end of business hours, exclusive
	StepMinutes int
}

// Available reports whether a booking of requiredSlots consecutive slots
// starting at candidate is bookable. Every slot of the span must:
//  1. lie on the grid and fit inside [Open, Close) including its own span,
//  2. be absent from occupied,
//  3. start no earlier than now plus minNoticeMinutes when date is today.
//
// The closing-time check runs on every slot of the walk, so a span whose
// tail crosses Close is rejected even when the candidate itself is in range.
func (e Evaluator) Available(
	candidate types.TimeString,
	requiredSlots int,
	occupied map[string]struct{},
	date time.Time,
	now time.Time,
	minNoticeMinutes int,
) bool {
	if requiredSlots < 1 {
		requiredSlots = 1
	}
	if e.StepMinutes <= 0 {
		return false
	}

	var cutoff types.TimeString
	checkCutoff := sameDay(date, now)
	if checkCutoff {
		c, err := types.NewTimeString(now).AddMinutes(minNoticeMinutes)
		if err != nil {
			// notice window extends past end of day: nothing today is bookable
			return false
		}
		cutoff = c
	}

	slot := candidate
	for i := 0; i < requiredSlots; i++ {
		if !e.onGrid(slot) {
			return false
		}

		end, err := slot.AddMinutes(e.StepMinutes)
		if err != nil || end.IsAfter(e.Close) {
			return false
		}

		if _, ok := occupied[slot.SlotKey()]; ok {
			return false
		}

		if checkCutoff && slot.IsBefore(cutoff) {
			return false
		}

		slot = end
	}

	return true
}

// onGrid reports whether slot is inside business hours and aligned to the
// step grid anchored at Open. Off-grid fractional offsets are not bookable.
func (e Evaluator) onGrid(slot types.TimeString) bool {
	if slot.IsBefore(e.Open) || !slot.IsBefore(e.Close) {
		return false
	}

	slotMin, err := slot.Minutes()
	if err != nil {
		return false
	}
	openMin, err := e.Open.Minutes()
	if err != nil {
		return false
	}

	return (slotMin-openMin)%e.StepMinutes == 0
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
