package config

import (
	"context"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/integrations/catalogservice"
)

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	Create(ctx context.Context, config *domain.CompanyScheduleConfig) (*domain.CompanyScheduleConfig, error)
	GetByID(ctx context.Context, id int64) (*domain.CompanyScheduleConfig, error)
	GetByCompanyStaffAndService(ctx context.Context, companyID int64, staffID *int64, serviceID *int64) (*domain.CompanyScheduleConfig, error)
	GetConfigWithHierarchy(ctx context.Context, companyID int64, staffID *int64, serviceID *int64) (*domain.CompanyScheduleConfig, error)
	GetAllByCompany(ctx context.Context, companyID int64) ([]*domain.CompanyScheduleConfig, error)
	Update(ctx context.Context, id int64, config *domain.CompanyScheduleConfig) (*domain.CompanyScheduleConfig, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCompanyStaffAndService(ctx context.Context, companyID int64, staffID *int64, serviceID *int64) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetCompany(ctx context.Context, companyID int64) (*catalogservice.Company, error)
	GetService(ctx context.Context, companyID, serviceID int64) (*catalogservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
