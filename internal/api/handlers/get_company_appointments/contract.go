package get_company_appointments

import (
	"context"

	"github.com/salonkit/booking-service/internal/service/appointments/models"
)

type AppointmentService interface {
	GetCompanyAppointments(ctx context.Context, req *models.GetCompanyAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
