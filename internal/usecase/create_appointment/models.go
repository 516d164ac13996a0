package create_appointment

import (
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID   int64            // ID клиента
	CompanyID  int64            // ID компании
	StaffID    int64            // ID мастера
	ServiceIDs []int64          // ID выбранных услуг (минимум одна)
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	ClientID        int64            // ID клиента
	CompanyID       int64            // ID компании
	StaffID         int64            // ID мастера
	ServiceIDs      []int64          // ID услуг
	AppointmentDate time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Суммарная длительность в минутах
	RequiredSlots   int              // Количество занятых последовательных слотов
	Status          string           // Статус записи

	// Денормализованные данные
	ServiceNames string  // Названия услуг через запятую
	TotalPrice   float64 // Суммарная цена услуг
	ClientName   *string // Имя клиента (nil, если ClientService недоступен)
	ClientPhone  *string // Телефон клиента
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
