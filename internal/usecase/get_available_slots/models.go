package get_available_slots

import (
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ClientID   int64     // ID клиента (для логирования, не влияет на результат)
	CompanyID  int64     // ID компании
	StaffID    int64     // ID мастера
	ServiceIDs []int64   // ID выбранных услуг (минимум одна)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date          time.Time // Дата, на которую запрашивались слоты
	CompanyID     int64     // ID компании
	StaffID       int64     // ID мастера
	ServiceIDs    []int64   // ID услуг
	RequiredSlots int       // Количество последовательных слотов под суммарную длительность
	Slots         []Slot    // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}
