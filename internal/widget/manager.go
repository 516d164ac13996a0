package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/usecase/create_appointment"
	"github.com/salonkit/booking-service/internal/usecase/get_available_slots"
	"github.com/salonkit/booking-service/pkg/types"
)

// Manager управляет сессиями виджета бронирования.
// Сессии хранятся в памяти процесса и защищены общим мьютексом:
// мутаций немного, а внешние вызовы выполняются вне блокировки
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	slots        SlotsProvider
	creator      AppointmentCreator
	timeProvider TimeProvider
	ttl          time.Duration
	logger       Logger
}

// NewManager создает новый менеджер сессий виджета
func NewManager(
	slots SlotsProvider,
	creator AppointmentCreator,
	sessionTTL time.Duration,
	logger Logger,
) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		slots:        slots,
		creator:      creator,
		timeProvider: RealTimeProvider{},
		ttl:          sessionTTL,
		logger:       logger,
	}
}

// StartSession создает новую сессию виджета для клиента
func (m *Manager) StartSession(_ context.Context, clientID, companyID, staffID int64) (*Session, error) {
	if clientID <= 0 || companyID <= 0 || staffID <= 0 {
		return nil, fmt.Errorf("%w: client, company and staff IDs must be positive", ErrInvalidInput)
	}

	now := m.timeProvider.Now()
	session := &Session{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		CompanyID: companyID,
		StaffID:   staffID,
		State:     StateIdle,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("Widget session %s started: client=%d, company=%d, staff=%d",
		session.ID, clientID, companyID, staffID)
	return session.snapshot(), nil
}

// GetSession возвращает текущее состояние сессии
func (m *Manager) GetSession(_ context.Context, sessionID string, clientID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.lookup(sessionID, clientID)
	if err != nil {
		return nil, err
	}
	return session.snapshot(), nil
}

// SelectServices задает набор услуг для сессии.
// Смена услуг меняет требуемое количество слотов, поэтому ранее выбранный
// слот сбрасывается, а доступность при выбранной дате запрашивается заново
func (m *Manager) SelectServices(ctx context.Context, sessionID string, clientID int64, serviceIDs []int64) (*Session, error) {
	if len(serviceIDs) == 0 || len(serviceIDs) > domain.MaxServicesPerAppointment {
		return nil, fmt.Errorf("%w: from 1 to %d services must be selected", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}
	for _, id := range serviceIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: service IDs must be positive", ErrInvalidInput)
		}
	}

	m.mu.Lock()
	session, err := m.lookup(sessionID, clientID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if session.State == StateConfirmed {
		m.mu.Unlock()
		return nil, ErrAlreadyConfirmed
	}

	prevServiceIDs := session.ServiceIDs
	prevPick := session.PickedSlot
	prevState := session.State

	session.ServiceIDs = append([]int64(nil), serviceIDs...)
	session.PickedSlot = nil
	if session.SelectedDate == nil {
		// Даты ещё нет - загружать нечего
		snap := session.snapshot()
		m.mu.Unlock()
		return snap, nil
	}

	session.State = StateDateSelected
	return m.refreshAvailability(ctx, session, func(s *Session) {
		s.ServiceIDs = prevServiceIDs
		s.PickedSlot = prevPick
		s.State = prevState
	})
}

// SelectDate задает дату для сессии.
// Выбранный ранее слот сбрасывается, занятость запрашивается заново
func (m *Manager) SelectDate(ctx context.Context, sessionID string, clientID int64, date time.Time) (*Session, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	m.mu.Lock()
	session, err := m.lookup(sessionID, clientID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if session.State == StateConfirmed {
		m.mu.Unlock()
		return nil, ErrAlreadyConfirmed
	}
	if len(session.ServiceIDs) == 0 {
		m.mu.Unlock()
		return nil, ErrNoServicesSelected
	}

	prevDate := session.SelectedDate
	prevPick := session.PickedSlot
	prevState := session.State

	day := date.Truncate(24 * time.Hour)
	session.SelectedDate = &day
	session.PickedSlot = nil
	session.State = StateDateSelected

	return m.refreshAvailability(ctx, session, func(s *Session) {
		s.SelectedDate = prevDate
		s.PickedSlot = prevPick
		s.State = prevState
	})
}

// refreshAvailability перезагружает доступные слоты для текущих (дата, услуги).
// Вызывается с удерживаемым мьютексом и освобождает его на время внешнего вызова.
// Результат применяется только если за время запроса сессию не успели изменить,
// иначе устаревшая доступность перекрасила бы актуальную.
// При отклонении выбора на валидации revert возвращает сессии прежний выбор
func (m *Manager) refreshAvailability(ctx context.Context, session *Session, revert func(*Session)) (*Session, error) {
	session.generation++
	gen := session.generation

	req := &get_available_slots.Request{
		ClientID:   session.ClientID,
		CompanyID:  session.CompanyID,
		StaffID:    session.StaffID,
		ServiceIDs: append([]int64(nil), session.ServiceIDs...),
		Date:       *session.SelectedDate,
	}
	sessionID := session.ID
	m.mu.Unlock()

	resp, fetchErr := m.slots.Execute(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if current.generation != gen {
		// Пришёл устаревший результат - выбор успели изменить, отбрасываем
		m.logger.Info("Widget session %s: discarding stale availability result", sessionID)
		return current.snapshot(), nil
	}

	if fetchErr != nil {
		// Отказ валидации не означает неизвестную занятость: выбор
		// отклоняется, сессия возвращается к прежнему состоянию
		if isSelectionRejected(fetchErr) {
			revert(current)
			m.logger.Warn("Widget session %s: selection rejected: %v", sessionID, fetchErr)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, fetchErr)
		}

		current.Slots = nil
		current.RequiredSlots = 0
		current.FetchFailed = true
		m.logger.Warn("Widget session %s: availability fetch failed: %v", sessionID, fetchErr)
		return current.snapshot(), fmt.Errorf("%w: %v", ErrAvailabilityUnknown, fetchErr)
	}

	current.Slots = resp.Slots
	current.RequiredSlots = resp.RequiredSlots
	current.FetchFailed = false
	return current.snapshot(), nil
}

// PickSlot фиксирует выбор слота.
// Выбор недоступного слота не регистрируется - доступность определяет
// только загруженный список слотов
func (m *Manager) PickSlot(_ context.Context, sessionID string, clientID int64, start types.TimeString) (*Session, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.lookup(sessionID, clientID)
	if err != nil {
		return nil, err
	}
	if session.State == StateConfirmed {
		return nil, ErrAlreadyConfirmed
	}
	if session.SelectedDate == nil {
		return nil, ErrNoDateSelected
	}
	if session.FetchFailed {
		return nil, ErrAvailabilityUnknown
	}
	if !session.slotAvailable(start) {
		return nil, ErrSlotNotAvailable
	}

	picked := start
	session.PickedSlot = &picked
	session.State = StateSlotPicked
	return session.snapshot(), nil
}

// Submit подтверждает выбор и создает запись.
// Без выбранного слота подтверждение отклоняется локально, без внешних вызовов.
// При ошибке создания сессия остаётся в состоянии SlotPicked и допускает повтор
func (m *Manager) Submit(ctx context.Context, sessionID string, clientID int64, notes *string) (*Session, error) {
	m.mu.Lock()
	session, err := m.lookup(sessionID, clientID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if session.State == StateConfirmed {
		m.mu.Unlock()
		return nil, ErrAlreadyConfirmed
	}
	if session.PickedSlot == nil || session.SelectedDate == nil {
		m.mu.Unlock()
		return nil, ErrNoSlotPicked
	}

	req := &create_appointment.Request{
		ClientID:   session.ClientID,
		CompanyID:  session.CompanyID,
		StaffID:    session.StaffID,
		ServiceIDs: append([]int64(nil), session.ServiceIDs...),
		Date:       *session.SelectedDate,
		StartTime:  *session.PickedSlot,
		Notes:      notes,
	}
	m.mu.Unlock()

	resp, createErr := m.creator.Execute(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if createErr != nil {
		m.logger.Warn("Widget session %s: submit failed: %v", sessionID, createErr)
		return nil, createErr
	}

	current.State = StateConfirmed
	current.AppointmentID = &resp.ID
	m.logger.Info("Widget session %s confirmed: appointment=%d", sessionID, resp.ID)
	return current.snapshot(), nil
}

// PruneExpired удаляет истёкшие сессии и возвращает их количество
func (m *Manager) PruneExpired() int {
	now := m.timeProvider.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("Widget sessions pruned: %d expired", removed)
	}
	return removed
}

// RunCleanup периодически удаляет истёкшие сессии до отмены контекста
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.PruneExpired()
		}
	}
}

// isSelectionRejected отличает отказ валидации выбора (прошедшая дата,
// несуществующий мастер или услуга) от реальной ошибки загрузки занятости
func isSelectionRejected(err error) bool {
	return errors.Is(err, get_available_slots.ErrInvalidDate) ||
		errors.Is(err, get_available_slots.ErrDateTooFarInFuture) ||
		errors.Is(err, get_available_slots.ErrCompanyNotFound) ||
		errors.Is(err, get_available_slots.ErrStaffNotFound) ||
		errors.Is(err, get_available_slots.ErrServiceNotFound) ||
		errors.Is(err, get_available_slots.ErrServiceNotProvidedByStaff) ||
		errors.Is(err, get_available_slots.ErrInvalidInput)
}

// lookup находит живую сессию и проверяет владельца.
// Вызывается с удерживаемым мьютексом
func (m *Manager) lookup(sessionID string, clientID int64) (*Session, error) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.timeProvider.Now().After(session.ExpiresAt) {
		delete(m.sessions, sessionID)
		return nil, ErrSessionExpired
	}
	if session.ClientID != clientID {
		return nil, ErrAccessDenied
	}
	return session, nil
}
