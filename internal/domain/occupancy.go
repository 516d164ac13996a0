package domain

// OccupancyRecord represents one reserved interval: an appointment occupying
// Blocks consecutive slots starting at SlotTime.
type OccupancyRecord struct {
	SlotTime string // slot key "HH:MM:SS"
	Blocks   int    // number of consecutive slots, >= 1
}

// RequiredSlotCount возвращает количество последовательных слотов под запись
// суммарной длительностью totalMinutes при шаге stepMinutes.
// Всегда не меньше 1: нулевая длительность услуги не должна давать запись
// нулевой длины.
func RequiredSlotCount(totalMinutes, stepMinutes int) int {
	if stepMinutes <= 0 {
		return 1
	}
	if totalMinutes <= 0 {
		totalMinutes = DefaultServiceDurationMinutes
	}
	count := (totalMinutes + stepMinutes - 1) / stepMinutes
	if count < 1 {
		count = 1
	}
	return count
}
