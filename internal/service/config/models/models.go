package models

import (
	"time"

	"github.com/salonkit/booking-service/internal/domain"
)

// Request модели

// CreateConfigRequest запрос на создание конфигурации расписания
type CreateConfigRequest struct {
	ClientID                  int64  `json:"clientId"`
	CompanyID                 int64  `json:"companyId"`
	StaffID                   *int64 `json:"staffId,omitempty"`         // NULL = для всех мастеров
	ServiceID                 *int64 `json:"serviceId,omitempty"`       // NULL = для всех услуг
	SlotDurationMinutes       int    `json:"slotDurationMinutes"`       // 15, 30, 60 - должно делить час нацело
	MaxConcurrentAppointments int    `json:"maxConcurrentAppointments"` // Количество одновременных записей
	AdvanceBookingDays        int    `json:"advanceBookingDays"`        // 0 = без ограничений
	MinBookingNoticeMinutes   int    `json:"minBookingNoticeMinutes"`   // Минимальное время до записи
}

// UpdateConfigRequest запрос на обновление конфигурации расписания
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	ClientID                  int64 `json:"clientId"`
	SlotDurationMinutes       *int  `json:"slotDurationMinutes,omitempty"`
	MaxConcurrentAppointments *int  `json:"maxConcurrentAppointments,omitempty"`
	AdvanceBookingDays        *int  `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes   *int  `json:"minBookingNoticeMinutes,omitempty"`
}

// GetConfigRequest запрос на получение конфигурации (для иерархического поиска)
// StaffID и ServiceID могут быть nil для иерархического поиска
type GetConfigRequest struct {
	CompanyID int64  `json:"companyId"`
	StaffID   *int64 `json:"staffId,omitempty"`   // nil означает любой мастер
	ServiceID *int64 `json:"serviceId,omitempty"` // nil означает любая услуга
}

// DeleteConfigRequest запрос на удаление конфигурации
type DeleteConfigRequest struct {
	ClientID  int64  `json:"clientId"`
	CompanyID int64  `json:"companyId"`
	StaffID   *int64 `json:"staffId,omitempty"`
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации расписания
type ConfigResponse struct {
	ID                        int64     `json:"id"`
	CompanyID                 int64     `json:"companyId"`
	StaffID                   *int64    `json:"staffId,omitempty"`
	ServiceID                 *int64    `json:"serviceId,omitempty"`
	SlotDurationMinutes       int       `json:"slotDurationMinutes"`
	MaxConcurrentAppointments int       `json:"maxConcurrentAppointments"`
	AdvanceBookingDays        int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes   int       `json:"minBookingNoticeMinutes"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.CompanyScheduleConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                        c.ID,
		CompanyID:                 c.CompanyID,
		StaffID:                   c.StaffID,
		ServiceID:                 c.ServiceID,
		SlotDurationMinutes:       c.SlotDurationMinutes,
		MaxConcurrentAppointments: c.MaxConcurrentAppointments,
		AdvanceBookingDays:        c.AdvanceBookingDays,
		MinBookingNoticeMinutes:   c.MinBookingNoticeMinutes,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.CompanyScheduleConfig) *ConfigListResponse {
	if configs == nil {
		return &ConfigListResponse{
			Configs: []ConfigResponse{},
		}
	}

	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, len(configs)),
	}

	for i, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs[i] = *configResp
		}
	}

	return resp
}

// ToDomainConfig конвертирует CreateConfigRequest в domain модель
func (r *CreateConfigRequest) ToDomainConfig() *domain.CompanyScheduleConfig {
	return &domain.CompanyScheduleConfig{
		CompanyID:                 r.CompanyID,
		StaffID:                   r.StaffID,
		ServiceID:                 r.ServiceID,
		SlotDurationMinutes:       r.SlotDurationMinutes,
		MaxConcurrentAppointments: r.MaxConcurrentAppointments,
		AdvanceBookingDays:        r.AdvanceBookingDays,
		MinBookingNoticeMinutes:   r.MinBookingNoticeMinutes,
	}
}

// ApplyToConfig применяет обновления к существующей конфигурации
// Обновляются только непустые (not nil) поля из request
func (r *UpdateConfigRequest) ApplyToConfig(config *domain.CompanyScheduleConfig) {
	if r.SlotDurationMinutes != nil {
		config.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.MaxConcurrentAppointments != nil {
		config.MaxConcurrentAppointments = *r.MaxConcurrentAppointments
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}
