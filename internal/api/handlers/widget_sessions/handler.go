package widget_sessions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonkit/booking-service/internal/api/handlers"
	"github.com/salonkit/booking-service/internal/api/middleware"
	"github.com/salonkit/booking-service/internal/domain"
	createAppointment "github.com/salonkit/booking-service/internal/usecase/create_appointment"
	"github.com/salonkit/booking-service/internal/widget"
	"github.com/salonkit/booking-service/pkg/types"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingClientID     = "отсутствует ID клиента"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSessionNotFound     = "сессия не найдена"
	msgSessionExpired      = "срок жизни сессии истёк"
	msgForbidden           = "доступ запрещен"
	msgNoDateSelected      = "дата не выбрана"
	msgNoServicesSelected  = "услуги не выбраны"
	msgNoSlotPicked        = "слот не выбран"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgAvailabilityUnknown = "не удалось загрузить занятость, попробуйте позже"
	msgAlreadyConfirmed    = "запись по этой сессии уже создана"
	msgInvalidData         = "некорректные данные запроса"
)

type Handler struct {
	manager WidgetManager
	logger  Logger
}

func NewHandler(manager WidgetManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// HandleStart POST /api/v1/widget/sessions
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req StartSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /widget/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.manager.StartSession(r.Context(), clientID, req.CompanyID, req.StaffID)
	if err != nil {
		h.respondError(w, "POST /widget/sessions", err)
		return
	}

	h.logger.Info("POST /widget/sessions - Session started: session_id=%s, client_id=%d", session.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, FromSession(session))
}

// HandleGet GET /api/v1/widget/sessions/{sessionId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	session, err := h.manager.GetSession(r.Context(), mux.Vars(r)["sessionId"], clientID)
	if err != nil {
		h.respondError(w, "GET /widget/sessions/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleSelectDate PUT /api/v1/widget/sessions/{sessionId}/date
func (h *Handler) HandleSelectDate(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req SelectDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /widget/sessions/{id}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("PUT /widget/sessions/{id}/date - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	session, err := h.manager.SelectDate(r.Context(), mux.Vars(r)["sessionId"], clientID, date)
	if err != nil {
		// При ошибке загрузки занятости возвращаем состояние сессии вместе с 503:
		// флаг ошибки взведён, доступных слотов нет
		if errors.Is(err, widget.ErrAvailabilityUnknown) {
			h.logger.Warn("PUT /widget/sessions/{id}/date - Availability fetch failed: client_id=%d, error=%v", clientID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgAvailabilityUnknown)
			return
		}
		h.respondError(w, "PUT /widget/sessions/{id}/date", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleSelectServices PUT /api/v1/widget/sessions/{sessionId}/services
func (h *Handler) HandleSelectServices(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req SelectServicesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /widget/sessions/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.manager.SelectServices(r.Context(), mux.Vars(r)["sessionId"], clientID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, widget.ErrAvailabilityUnknown) {
			h.logger.Warn("PUT /widget/sessions/{id}/services - Availability fetch failed: client_id=%d, error=%v", clientID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgAvailabilityUnknown)
			return
		}
		h.respondError(w, "PUT /widget/sessions/{id}/services", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandlePickSlot PUT /api/v1/widget/sessions/{sessionId}/slot
func (h *Handler) HandlePickSlot(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req PickSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /widget/sessions/{id}/slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.manager.PickSlot(r.Context(), mux.Vars(r)["sessionId"], clientID, types.TimeString(req.StartTime))
	if err != nil {
		h.respondError(w, "PUT /widget/sessions/{id}/slot", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleSubmit POST /api/v1/widget/sessions/{sessionId}/submit
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /widget/sessions/{id}/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.manager.Submit(r.Context(), mux.Vars(r)["sessionId"], clientID, req.Notes)
	if err != nil {
		// Ошибки создания записи: занятый слот приводит к 409,
		// сессия остаётся в SlotPicked и допускает повторную попытку
		if errors.Is(err, createAppointment.ErrSlotNotAvailable) {
			h.logger.Warn("POST /widget/sessions/{id}/submit - Slot not available: client_id=%d", clientID)
			handlers.RespondConflict(w, msgSlotNotAvailable)
			return
		}
		h.respondError(w, "POST /widget/sessions/{id}/submit", err)
		return
	}

	h.logger.Info("POST /widget/sessions/{id}/submit - Session confirmed: session_id=%s, client_id=%d",
		session.ID, clientID)
	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// respondError переводит ошибки виджета в HTTP ответы
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, widget.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found", op)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, widget.ErrSessionExpired):
		h.logger.Warn("%s - Session expired", op)
		handlers.RespondError(w, http.StatusGone, msgSessionExpired)

	case errors.Is(err, widget.ErrAccessDenied):
		h.logger.Warn("%s - Access denied", op)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, widget.ErrNoDateSelected):
		h.logger.Warn("%s - No date selected", op)
		handlers.RespondBadRequest(w, msgNoDateSelected)

	case errors.Is(err, widget.ErrNoServicesSelected):
		h.logger.Warn("%s - No services selected", op)
		handlers.RespondBadRequest(w, msgNoServicesSelected)

	case errors.Is(err, widget.ErrNoSlotPicked):
		h.logger.Warn("%s - No slot picked", op)
		handlers.RespondBadRequest(w, msgNoSlotPicked)

	case errors.Is(err, widget.ErrSlotNotAvailable):
		h.logger.Warn("%s - Slot not available", op)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, widget.ErrAvailabilityUnknown):
		h.logger.Warn("%s - Availability unknown", op)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgAvailabilityUnknown)

	case errors.Is(err, widget.ErrAlreadyConfirmed):
		h.logger.Warn("%s - Session already confirmed", op)
		handlers.RespondConflict(w, msgAlreadyConfirmed)

	case errors.Is(err, widget.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Unexpected error: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
