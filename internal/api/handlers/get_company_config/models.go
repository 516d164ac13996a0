package get_company_config

import (
	"strconv"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/service/config/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(companyID int64, staffIDStr, serviceIDStr string) (*models.GetConfigRequest, error) {
	req := &models.GetConfigRequest{CompanyID: companyID}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}

// GetDefaultConfigResponse возвращает конфигурацию по умолчанию.
// Используется, когда компания не настраивала расписание
func GetDefaultConfigResponse(companyID int64) *models.ConfigResponse {
	cfg := domain.DefaultScheduleConfig()
	cfg.CompanyID = companyID
	return models.FromDomainConfig(cfg)
}
