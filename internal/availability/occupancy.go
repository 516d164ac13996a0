package availability

import "github.com/salonkit/booking-service/internal/domain"

// Expand converts occupancy records into per-slot occupancy counts.
// Each record marks Blocks consecutive slots starting at its SlotTime;
// Blocks below 1 is floored to 1, so the starting slot of a referenced
// record is always counted. Blocks running past the end of day are
// truncated. Expansion is idempotent: the same input always yields the
// same counts.
func Expand(records []domain.OccupancyRecord, stepMinutes int) map[string]int {
	counts := make(map[string]int, len(records))
	if stepMinutes <= 0 {
		return counts
	}

	for _, record := range records {
		slot, err := SlotTime(record.SlotTime)
		if err != nil {
			// malformed slot key from the data source, skip the record
			continue
		}

		blocks := record.Blocks
		if blocks < 1 {
			blocks = 1
		}

		for i := 0; i < blocks; i++ {
			counts[slot.SlotKey()]++

			next, err := slot.AddMinutes(stepMinutes)
			if err != nil {
				break
			}
			slot = next
		}
	}

	return counts
}

// OccupiedSet returns the set of slot keys whose occupancy count has reached
// capacity. Capacity below 1 is floored to 1 (a slot with any occupancy is
// occupied when no parallel appointments are allowed).
func OccupiedSet(counts map[string]int, capacity int) map[string]struct{} {
	if capacity < 1 {
		capacity = 1
	}

	occupied := make(map[string]struct{})
	for key, count := range counts {
		if count >= capacity {
			occupied[key] = struct{}{}
		}
	}

	return occupied
}
