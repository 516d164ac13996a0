package availability

import (
	"fmt"

	"github.com/salonkit/booking-service/pkg/types"
)

// TimeSlot is one candidate slot start in the day grid.
// Label is "HH:MM" for display, Key is "HH:MM:SS" for string-equality
// comparison against occupancy data. Keys avoid timezone and Date-object
// pitfalls entirely: a slot key matches occupancy iff the strings match.
type TimeSlot struct {
	Label string
	Key   string
}

// Grid produces the canonical ordered list of candidate slot starts covering
// [startHour:00, endHourExclusive:00) at stepMinutes granularity.
// Pure function of its parameters; deterministic and exhaustive for any
// positive step. Callers are expected to validate that stepMinutes divides 60
// (domain.CompanyScheduleConfig.ValidateSlotStep); with other steps the grid
// is still generated but labels drift off hour boundaries.
func Grid(startHour, endHourExclusive, stepMinutes int) []TimeSlot {
	if stepMinutes <= 0 || endHourExclusive <= startHour {
		return []TimeSlot{}
	}

	openTime, err := types.NewTimeStringFromMinutes(startHour * 60)
	if err != nil {
		return []TimeSlot{}
	}
	closeTime, err := types.NewTimeStringFromMinutes(endHourExclusive * 60)
	if err != nil {
		return []TimeSlot{}
	}

	return GridBetween(openTime, closeTime, stepMinutes)
}

// GridBetween produces slot starts covering [openTime, closeTime) at
// stepMinutes granularity. A slot whose own span would cross closing is
// not included, so every listed slot fits at least one step before closing.
func GridBetween(openTime, closeTime types.TimeString, stepMinutes int) []TimeSlot {
	if stepMinutes <= 0 || !openTime.IsBefore(closeTime) {
		return []TimeSlot{}
	}

	slots := make([]TimeSlot, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		end, err := current.AddMinutes(stepMinutes)
		if err != nil {
			// past the end of day
			break
		}
		if end.IsAfter(closeTime) {
			break
		}

		slots = append(slots, TimeSlot{
			Label: current.String(),
			Key:   current.SlotKey(),
		})

		current = end
	}

	return slots
}

// SlotTime parses a slot key "HH:MM:SS" back into a TimeString.
func SlotTime(key string) (types.TimeString, error) {
	if len(key) < 5 {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTimeString, key)
	}
	return types.NewTimeStringFromString(key[:5])
}
