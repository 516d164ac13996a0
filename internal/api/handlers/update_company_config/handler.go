package update_company_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	"github.com/salonkit/booking-service/internal/api/middleware"
	"github.com/salonkit/booking-service/internal/service/config"
)

const (
	msgInvalidCompanyID   = "некорректный ID компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingClientID    = "отсутствует ID клиента"
	msgNotFound           = "конфигурация не найдена"
	msgCompanyNotFound    = "компания не найдена"
	msgStaffNotFound      = "мастер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные конфигурации"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/companies/{companyId}/config
// Upsert: если конфигурации для уровня (staffId, serviceId) нет - создаётся,
// иначе обновляется существующая. Сервис сам проверит права менеджера
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /companies/{id}/config - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("PUT /companies/{id}/config - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req UpdateCompanyConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /companies/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Пробуем создать конфигурацию для указанного уровня
	created, err := h.service.Create(r.Context(), req.ToCreateRequest(clientID, companyID))
	if err == nil {
		h.logger.Info("PUT /companies/{id}/config - Config created successfully: company_id=%d, config_id=%d",
			companyID, created.ID)
		handlers.RespondJSON(w, http.StatusCreated, created)
		return
	}

	if !errors.Is(err, config.ErrConfigAlreadyExists) {
		h.respondServiceError(w, companyID, clientID, err)
		return
	}

	// Конфигурация уже существует - находим её и обновляем.
	// Иерархический поиск по точному ключу вернет именно эту конфигурацию
	existing, err := h.service.GetWithHierarchy(r.Context(), ToGetConfigRequest(companyID, req.StaffID, req.ServiceID))
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			h.logger.Warn("PUT /companies/{id}/config - Config not found: company_id=%d, staff_id=%v, service_id=%v",
				companyID, req.StaffID, req.ServiceID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("PUT /companies/{id}/config - Failed to get config: company_id=%d, error=%v",
			companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	result, err := h.service.Update(r.Context(), existing.ID, req.ToUpdateRequest(clientID))
	if err != nil {
		h.respondServiceError(w, companyID, clientID, err)
		return
	}

	h.logger.Info("PUT /companies/{id}/config - Config updated successfully: company_id=%d, config_id=%d",
		companyID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// respondServiceError переводит ошибки сервиса конфигурации в HTTP ответы
func (h *Handler) respondServiceError(w http.ResponseWriter, companyID, clientID int64, err error) {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		h.logger.Warn("PUT /companies/{id}/config - Config not found: company_id=%d", companyID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, config.ErrCompanyNotFound):
		h.logger.Warn("PUT /companies/{id}/config - Company not found: company_id=%d", companyID)
		handlers.RespondNotFound(w, msgCompanyNotFound)

	case errors.Is(err, config.ErrStaffNotFound):
		h.logger.Warn("PUT /companies/{id}/config - Staff not found: company_id=%d", companyID)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, config.ErrServiceNotFound):
		h.logger.Warn("PUT /companies/{id}/config - Service not found: company_id=%d", companyID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, config.ErrAccessDenied):
		h.logger.Warn("PUT /companies/{id}/config - Access denied: company_id=%d, client_id=%d",
			companyID, clientID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, config.ErrInvalidInput):
		h.logger.Warn("PUT /companies/{id}/config - Invalid data: company_id=%d, error=%v",
			companyID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("PUT /companies/{id}/config - Failed to save config: company_id=%d, error=%v",
			companyID, err)
		handlers.RespondInternalError(w)
	}
}
