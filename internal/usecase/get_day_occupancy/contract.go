package get_day_occupancy

import (
	"context"

	"github.com/salonkit/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetDayOccupancy получает записи занятости мастера на конкретную дату
	GetDayOccupancy(ctx context.Context, companyID, staffID int64, date string) ([]domain.OccupancyRecord, error)
}

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, companyID int64, staffID *int64, serviceID *int64) (*domain.CompanyScheduleConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
