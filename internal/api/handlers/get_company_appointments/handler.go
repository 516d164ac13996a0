package get_company_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	"github.com/salonkit/booking-service/internal/api/middleware"
	"github.com/salonkit/booking-service/internal/service/appointments"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgInvalidParams    = "некорректные параметры запроса"
	msgMissingClientID  = "отсутствует ID клиента"
	msgCompanyNotFound  = "компания не найдена"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/appointments
// Query params: staffId, status, date, includeInactive (все опциональны)
// Доступно только менеджерам компании
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/appointments - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("GET /companies/{id}/appointments - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	query := r.URL.Query()
	req, err := ToServiceRequest(
		companyID,
		clientID,
		query.Get("staffId"),
		query.Get("status"),
		query.Get("date"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetCompanyAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrCompanyNotFound):
			h.logger.Warn("GET /companies/{id}/appointments - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /companies/{id}/appointments - Access denied: company_id=%d, client_id=%d",
				companyID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/appointments - Invalid filter: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /companies/{id}/appointments - Failed to get appointments: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /companies/{id}/appointments - Appointments retrieved successfully: company_id=%d, count=%d",
		companyID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
