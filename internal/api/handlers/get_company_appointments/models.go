package get_company_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	companyID int64,
	clientID int64,
	staffIDStr string,
	statusStr string,
	dateStr string,
	includeInactiveStr string,
) (*models.GetCompanyAppointmentsRequest, error) {
	req := &models.GetCompanyAppointmentsRequest{
		ClientID:        clientID,
		CompanyID:       companyID,
		IncludeInactive: false, // По умолчанию только активные
	}

	// Парсим staffId если указан
	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим date если указана
	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	// Парсим includeInactive если указан
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
