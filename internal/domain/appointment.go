package domain

import (
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending            AppointmentStatus = "pending"
	StatusConfirmed          AppointmentStatus = "confirmed"
	StatusInProgress         AppointmentStatus = "in_progress"
	StatusCompleted          AppointmentStatus = "completed"
	StatusCancelledByClient  AppointmentStatus = "cancelled_by_client"
	StatusCancelledByCompany AppointmentStatus = "cancelled_by_company"
	StatusNoShow             AppointmentStatus = "no_show"
)

// Appointment represents a salon appointment in the system
type Appointment struct {
	ID              int64
	ClientID        int64
	CompanyID       int64
	StaffID         int64 // ID мастера (компания может иметь несколько мастеров)
	ServiceIDs      []int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	DurationMinutes int // суммарная длительность всех выбранных услуг
	RequiredSlots   int // количество последовательных слотов под запись
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceNames string
	TotalPrice   float64
	ClientName   *string
	ClientPhone  *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment is in an active state
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelledByClient &&
		a.Status != StatusCancelledByCompany &&
		a.Status != StatusNoShow
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByClient || a.Status == StatusCancelledByCompany
}

// IsCompleted returns true if the appointment is completed or was a no-show
func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow
}

// EndTime returns the end time of the appointment span
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// CompanyAppointmentsFilter фильтр для получения записей компании
type CompanyAppointmentsFilter struct {
	CompanyID       int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по мастеру (опционально, если nil - все мастера)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли неактивные записи (отмененные, no-show)
}
