package get_available_slots

import (
	"fmt"
	"time"

	"github.com/salonkit/booking-service/internal/availability"
	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/integrations/catalogservice"
	"github.com/salonkit/booking-service/pkg/types"
)

// totalServiceDuration суммирует длительности выбранных услуг по ответу каталога.
// Если каталог вернул не все запрошенные услуги - хотя бы одна не существует.
// Нулевая длительность заменяется дефолтной, чтобы не получить запись нулевой длины.
func totalServiceDuration(requested []int64, durations []catalogservice.ServiceDuration) (int, error) {
	byID := make(map[int64]int, len(durations))
	for _, d := range durations {
		byID[d.ID] = d.DurationMinutes
	}

	total := 0
	for _, id := range requested {
		minutes, ok := byID[id]
		if !ok {
			return 0, fmt.Errorf("%w: service id=%d", ErrServiceNotFound, id)
		}
		if minutes <= 0 {
			minutes = domain.DefaultServiceDurationMinutes
		}
		total += minutes
	}

	return total, nil
}

// buildAvailableSlots строит список доступных слотов дня.
// Слот попадает в ответ, только если с него можно начать запись на
// requiredSlots последовательных слотов: каждый слот цепочки свободен,
// укладывается в рабочие часы и не раньше минимального времени до записи.
func buildAvailableSlots(
	workingHours catalogservice.DaySchedule,
	config *domain.CompanyScheduleConfig,
	occupancy []domain.OccupancyRecord,
	requiredSlots int,
	date time.Time,
	now time.Time,
) ([]Slot, error) {
	if !workingHours.IsOpen || workingHours.OpenTime == nil || workingHours.CloseTime == nil {
		return []Slot{}, nil
	}

	openTime, err := types.NewTimeStringFromString(*workingHours.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(*workingHours.CloseTime)
	if err != nil {
		return nil, err
	}

	step := config.SlotDurationMinutes
	capacity := config.MaxConcurrentAppointments

	grid := availability.GridBetween(openTime, closeTime, step)
	counts := availability.Expand(occupancy, step)
	occupied := availability.OccupiedSet(counts, capacity)

	evaluator := availability.Evaluator{
		Open:        openTime,
		Close:       closeTime,
		StepMinutes: step,
	}

	slots := make([]Slot, 0, len(grid))
	for _, gridSlot := range grid {
		start := types.TimeString(gridSlot.Label)
		if !evaluator.Available(start, requiredSlots, occupied, date, now, config.MinBookingNoticeMinutes) {
			continue
		}

		available := capacity - counts[gridSlot.Key]
		if available < 0 {
			available = 0
		}

		slots = append(slots, Slot{
			StartTime:       start,
			DurationMinutes: step,
			AvailableSpots:  available,
			TotalSpots:      capacity,
		})
	}

	return slots, nil
}
