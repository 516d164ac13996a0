package update_company_config

import (
	"github.com/salonkit/booking-service/internal/service/config/models"
)

// UpdateCompanyConfigRequest HTTP request model.
// PUT задает полный набор значений для уровня (companyId, staffId, serviceId)
type UpdateCompanyConfigRequest struct {
	StaffID                   *int64 `json:"staffId,omitempty"`
	ServiceID                 *int64 `json:"serviceId,omitempty"`
	SlotDurationMinutes       int    `json:"slotDurationMinutes"`
	MaxConcurrentAppointments int    `json:"maxConcurrentAppointments"`
	AdvanceBookingDays        int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes   int    `json:"minBookingNoticeMinutes"`
}

// ToCreateRequest конвертирует HTTP request в запрос создания конфигурации
func (r *UpdateCompanyConfigRequest) ToCreateRequest(clientID, companyID int64) *models.CreateConfigRequest {
	return &models.CreateConfigRequest{
		ClientID:                  clientID,
		CompanyID:                 companyID,
		StaffID:                   r.StaffID,
		ServiceID:                 r.ServiceID,
		SlotDurationMinutes:       r.SlotDurationMinutes,
		MaxConcurrentAppointments: r.MaxConcurrentAppointments,
		AdvanceBookingDays:        r.AdvanceBookingDays,
		MinBookingNoticeMinutes:   r.MinBookingNoticeMinutes,
	}
}

// ToUpdateRequest конвертирует HTTP request в запрос обновления конфигурации
func (r *UpdateCompanyConfigRequest) ToUpdateRequest(clientID int64) *models.UpdateConfigRequest {
	slotDuration := r.SlotDurationMinutes
	maxConcurrent := r.MaxConcurrentAppointments
	advanceDays := r.AdvanceBookingDays
	noticeMinutes := r.MinBookingNoticeMinutes

	return &models.UpdateConfigRequest{
		ClientID:                  clientID,
		SlotDurationMinutes:       &slotDuration,
		MaxConcurrentAppointments: &maxConcurrent,
		AdvanceBookingDays:        &advanceDays,
		MinBookingNoticeMinutes:   &noticeMinutes,
	}
}

// ToGetConfigRequest формирует запрос поиска конфигурации по ключу
func ToGetConfigRequest(companyID int64, staffID, serviceID *int64) *models.GetConfigRequest {
	return &models.GetConfigRequest{
		CompanyID: companyID,
		StaffID:   staffID,
		ServiceID: serviceID,
	}
}
