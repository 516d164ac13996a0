package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	getAvailableSlots "github.com/salonkit/booking-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidCompanyID     = "некорректный ID компании"
	msgInvalidStaffID       = "некорректный ID мастера"
	msgInvalidServiceIDs    = "некорректный список ID услуг"
	msgMissingServiceIDs    = "список ID услуг обязателен"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgCompanyNotFound      = "компания не найдена"
	msgStaffNotFound        = "мастер не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgServiceNotProvided   = "мастер не выполняет выбранную услугу"
	msgInvalidBookingDate   = "некорректная дата записи"
	msgDateTooFar           = "дата записи слишком далеко в будущем"
	msgInvalidRequestParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/staff/{staffId}/available-slots
// Query params: serviceIds (required, "3,4"), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем companyId из URL
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	// Извлекаем staffId из URL
	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	// Извлекаем serviceIds из query параметров
	serviceIDsStr := r.URL.Query().Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	serviceIDs, err := ParseServiceIDs(serviceIDsStr)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(companyID, staffID, serviceIDs, dateStr)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCompanyNotFound):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Staff not found: company_id=%d, staff_id=%d",
				companyID, staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Service not found: company_id=%d, service_ids=%v",
				companyID, serviceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotProvidedByStaff):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Service not provided by staff: company_id=%d, staff_id=%d, service_ids=%v",
				companyID, staffID, serviceIDs)
			handlers.RespondBadRequest(w, msgServiceNotProvided)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Invalid booking date: company_id=%d, date=%s",
				companyID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Date too far in future: company_id=%d, date=%s",
				companyID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/staff/{id}/available-slots - Invalid input: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("GET /companies/{id}/staff/{id}/available-slots - Failed to get slots: company_id=%d, staff_id=%d, error=%v",
				companyID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /companies/{id}/staff/{id}/available-slots - Slots retrieved successfully: company_id=%d, staff_id=%d, slots_count=%d",
		companyID, staffID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
