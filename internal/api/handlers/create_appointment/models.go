package create_appointment

import (
	"time"

	"github.com/salonkit/booking-service/internal/domain"
	createAppointment "github.com/salonkit/booking-service/internal/usecase/create_appointment"
	"github.com/salonkit/booking-service/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CompanyID  int64   `json:"companyId"`
	StaffID    int64   `json:"staffId"`
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"`      // "2026-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
// с парсингом даты и валидацией формата времени
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime := types.TimeString(r.StartTime)
	if err := startTime.Validate(); err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ClientID:   clientID,
		CompanyID:  r.CompanyID,
		StaffID:    r.StaffID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	CompanyID       int64   `json:"companyId"`
	StaffID         int64   `json:"staffId"`
	ServiceIDs      []int64 `json:"serviceIds"`
	AppointmentDate string  `json:"appointmentDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	RequiredSlots   int     `json:"requiredSlots"`
	Status          string  `json:"status"`

	ServiceNames string  `json:"serviceNames"`
	TotalPrice   float64 `json:"totalPrice"`
	ClientName   *string `json:"clientName,omitempty"`
	ClientPhone  *string `json:"clientPhone,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		CompanyID:       resp.CompanyID,
		StaffID:         resp.StaffID,
		ServiceIDs:      resp.ServiceIDs,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		RequiredSlots:   resp.RequiredSlots,
		Status:          resp.Status,
		ServiceNames:    resp.ServiceNames,
		TotalPrice:      resp.TotalPrice,
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
	}
}
