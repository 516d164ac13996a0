package widget_sessions

import (
	"time"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/widget"
)

// StartSessionRequest HTTP request model
type StartSessionRequest struct {
	CompanyID int64 `json:"companyId"`
	StaffID   int64 `json:"staffId"`
}

// SelectDateRequest HTTP request model
type SelectDateRequest struct {
	Date string `json:"date"` // "2026-10-15"
}

// SelectServicesRequest HTTP request model
type SelectServicesRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
}

// PickSlotRequest HTTP request model
type PickSlotRequest struct {
	StartTime string `json:"startTime"` // "10:00"
}

// SubmitRequest HTTP request model
type SubmitRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// SessionResponse HTTP response model с текущим состоянием сессии
type SessionResponse struct {
	ID            string        `json:"id"`
	State         string        `json:"state"`
	CompanyID     int64         `json:"companyId"`
	StaffID       int64         `json:"staffId"`
	ServiceIDs    []int64       `json:"serviceIds,omitempty"`
	SelectedDate  *string       `json:"selectedDate,omitempty"`
	RequiredSlots int           `json:"requiredSlots,omitempty"`
	Slots         []SessionSlot `json:"slots,omitempty"`
	PickedSlot    *string       `json:"pickedSlot,omitempty"`
	FetchFailed   bool          `json:"fetchFailed,omitempty"`
	AppointmentID *int64        `json:"appointmentId,omitempty"`
	ExpiresAt     string        `json:"expiresAt"`
}

// SessionSlot модель доступного слота
type SessionSlot struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// FromSession конвертирует сессию виджета в HTTP response
func FromSession(s *widget.Session) *SessionResponse {
	resp := &SessionResponse{
		ID:            s.ID,
		State:         string(s.State),
		CompanyID:     s.CompanyID,
		StaffID:       s.StaffID,
		ServiceIDs:    s.ServiceIDs,
		RequiredSlots: s.RequiredSlots,
		FetchFailed:   s.FetchFailed,
		AppointmentID: s.AppointmentID,
		ExpiresAt:     s.ExpiresAt.UTC().Format(time.RFC3339),
	}

	if s.SelectedDate != nil {
		date := s.SelectedDate.Format(domain.DateFormat)
		resp.SelectedDate = &date
	}
	if s.PickedSlot != nil {
		picked := s.PickedSlot.String()
		resp.PickedSlot = &picked
	}

	// Под флагом ошибки загрузки список слотов не выдается -
	// пустой ответ нельзя трактовать как полностью свободный день
	if !s.FetchFailed {
		resp.Slots = make([]SessionSlot, len(s.Slots))
		for i, slot := range s.Slots {
			resp.Slots[i] = SessionSlot{
				StartTime:       slot.StartTime.String(),
				DurationMinutes: slot.DurationMinutes,
				AvailableSpots:  slot.AvailableSpots,
				TotalSpots:      slot.TotalSpots,
			}
		}
	}

	return resp
}
