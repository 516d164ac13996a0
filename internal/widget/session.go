package widget

import (
	"time"

	"github.com/salonkit/booking-service/internal/usecase/get_available_slots"
	"github.com/salonkit/booking-service/pkg/types"
)

// State состояние сессии виджета бронирования
type State string

const (
	// StateIdle дата ещё не выбрана
	StateIdle State = "idle"
	// StateDateSelected дата выбрана, занятость загружена (или загрузка завершилась ошибкой)
	StateDateSelected State = "date_selected"
	// StateSlotPicked клиент выбрал доступный слот
	StateSlotPicked State = "slot_picked"
	// StateConfirmed запись создана
	StateConfirmed State = "confirmed"
)

// Session сессия виджета бронирования.
// Сессия принадлежит одному клиенту и живёт только в памяти процесса:
// после истечения TTL или рестарта клиент начинает выбор заново
type Session struct {
	ID        string
	ClientID  int64
	CompanyID int64
	StaffID   int64

	State      State
	ServiceIDs []int64

	SelectedDate  *time.Time
	RequiredSlots int
	Slots         []get_available_slots.Slot
	PickedSlot    *types.TimeString

	// FetchFailed выставляется, когда загрузка занятости завершилась ошибкой.
	// Пока флаг взведён, ни один слот не показывается доступным -
	// пустой список нельзя трактовать как полностью свободный день
	FetchFailed bool

	// AppointmentID заполняется после подтверждения
	AppointmentID *int64

	CreatedAt time.Time
	ExpiresAt time.Time

	// generation растёт при каждой смене (дата, услуги); результат загрузки
	// занятости применяется только если поколение не изменилось за время запроса
	generation uint64
}

// snapshot возвращает копию сессии для выдачи наружу.
// Слайсы копируются, чтобы читатель не дотянулся до внутреннего состояния
func (s *Session) snapshot() *Session {
	cp := *s

	if s.ServiceIDs != nil {
		cp.ServiceIDs = make([]int64, len(s.ServiceIDs))
		copy(cp.ServiceIDs, s.ServiceIDs)
	}
	if s.Slots != nil {
		cp.Slots = make([]get_available_slots.Slot, len(s.Slots))
		copy(cp.Slots, s.Slots)
	}
	if s.SelectedDate != nil {
		d := *s.SelectedDate
		cp.SelectedDate = &d
	}
	if s.PickedSlot != nil {
		p := *s.PickedSlot
		cp.PickedSlot = &p
	}
	if s.AppointmentID != nil {
		id := *s.AppointmentID
		cp.AppointmentID = &id
	}

	return &cp
}

// slotAvailable проверяет, что слот присутствует в списке и имеет свободные места
func (s *Session) slotAvailable(start types.TimeString) bool {
	if s.FetchFailed {
		return false
	}
	for _, slot := range s.Slots {
		if slot.StartTime == start && slot.AvailableSpots > 0 {
			return true
		}
	}
	return false
}
