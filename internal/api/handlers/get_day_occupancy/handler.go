package get_day_occupancy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	getDayOccupancy "github.com/salonkit/booking-service/internal/usecase/get_day_occupancy"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgInvalidStaffID   = "некорректный ID мастера"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams    = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetDayOccupancyUseCase
	logger  Logger
}

func NewHandler(useCase GetDayOccupancyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/staff/{staffId}/day-occupancy
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/day-occupancy - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/day-occupancy - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /companies/{id}/staff/{id}/day-occupancy - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(companyID, staffID, dateStr)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/day-occupancy - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getDayOccupancy.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/staff/{id}/day-occupancy - Invalid input: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			// Ошибка загрузки занятости не выдается как свободный день:
			// клиент получает 500, а не пустой список записей
			h.logger.Error("GET /companies/{id}/staff/{id}/day-occupancy - Failed to get occupancy: company_id=%d, staff_id=%d, error=%v",
				companyID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /companies/{id}/staff/{id}/day-occupancy - Occupancy retrieved successfully: company_id=%d, staff_id=%d, records_count=%d",
		companyID, staffID, len(result.Records))
	handlers.RespondJSON(w, http.StatusOK, response)
}
