package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes       = 30
	DefaultMaxConcurrentAppointments = 1
	DefaultAdvanceBookingDays        = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes   = 60 // 1 hour

	// DefaultServiceDurationMinutes подставляется, когда каталог вернул
	// нулевую или отсутствующую длительность услуги, чтобы не получить
	// запись нулевой длины
	DefaultServiceDurationMinutes = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 60 // шаг слота должен делить час нацело
	MinConcurrentAppointments   = 1
	MaxConcurrentAppointments   = 100
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxServicesPerAppointment   = 10
)

// Time format constants
const (
	TimeFormat    = "15:04"      // HH:MM
	SlotKeyFormat = "15:04:05"   // HH:MM:SS
	DateFormat    = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов неактивных записей
// Используется для фильтрации при подсчёте занятости слотов:
// отменённые и no-show записи никогда не считаются занятостью
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByClient,
	StatusCancelledByCompany,
	StatusNoShow,
}

// ActiveStatuses список статусов активных записей
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
