package update_company_config

import (
	"context"

	"github.com/salonkit/booking-service/internal/service/config/models"
)

type ConfigService interface {
	Create(ctx context.Context, req *models.CreateConfigRequest) (*models.ConfigResponse, error)
	GetWithHierarchy(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
