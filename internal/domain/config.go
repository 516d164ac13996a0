package domain

import (
	"errors"
	"time"
)

// ErrInvalidSlotStep возвращается, когда шаг слота не делит 60 нацело
var ErrInvalidSlotStep = errors.New("slot duration must evenly divide 60 minutes")

// CompanyScheduleConfig represents the scheduling configuration for a company
// Supports hierarchical configuration:
// 1. Service with specific staff member (company_id, staff_id, service_id)
// 2. Staff-wide (company_id, staff_id, NULL)
// 3. Service-wide (company_id, NULL, service_id)
// 4. Company-wide (company_id, NULL, NULL)
type CompanyScheduleConfig struct {
	ID                        int64
	CompanyID                 int64
	StaffID                   *int64 // NULL = config for all staff members
	ServiceID                 *int64 // NULL = config for all services
	SlotDurationMinutes       int
	MaxConcurrentAppointments int
	AdvanceBookingDays        int // 0 = unlimited
	MinBookingNoticeMinutes   int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// IsGlobalConfig returns true if this is a global company configuration
func (c *CompanyScheduleConfig) IsGlobalConfig() bool {
	return c.StaffID == nil && c.ServiceID == nil
}

// IsStaffSpecific returns true if this configuration is for a specific staff member
func (c *CompanyScheduleConfig) IsStaffSpecific() bool {
	return c.StaffID != nil && c.ServiceID == nil
}

// IsServiceSpecific returns true if this configuration is for a specific service
func (c *CompanyScheduleConfig) IsServiceSpecific() bool {
	return c.StaffID == nil && c.ServiceID != nil
}

// IsServiceWithStaff returns true if this configuration is for a specific service with a specific staff member
func (c *CompanyScheduleConfig) IsServiceWithStaff() bool {
	return c.StaffID != nil && c.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance appointments can be made
func (c *CompanyScheduleConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SupportsParallelAppointments returns true if multiple concurrent appointments are supported
func (c *CompanyScheduleConfig) SupportsParallelAppointments() bool {
	return c.MaxConcurrentAppointments > 1
}

// ValidateSlotStep проверяет, что шаг слота делит час нацело.
// Сетка слотов строится строковыми ключами "HH:MM", поэтому шаг,
// не кратный 60, давал бы метки, не совпадающие с границами часа.
func (c *CompanyScheduleConfig) ValidateSlotStep() error {
	if c.SlotDurationMinutes <= 0 || 60%c.SlotDurationMinutes != 0 {
		return ErrInvalidSlotStep
	}
	return nil
}

// DefaultScheduleConfig возвращает конфигурацию с дефолтными значениями.
// Используется, когда для компании не задано ни одного уровня иерархии.
func DefaultScheduleConfig() *CompanyScheduleConfig {
	return &CompanyScheduleConfig{
		SlotDurationMinutes:       DefaultSlotDurationMinutes,
		MaxConcurrentAppointments: DefaultMaxConcurrentAppointments,
		AdvanceBookingDays:        DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes:   DefaultMinBookingNoticeMinutes,
	}
}
