package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/usecase/create_appointment"
	"github.com/salonkit/booking-service/internal/usecase/get_available_slots"
	"github.com/salonkit/booking-service/pkg/types"
)

type stubSlotsProvider struct {
	mu    sync.Mutex
	fn    func(req *get_available_slots.Request) (*get_available_slots.Response, error)
	calls int
}

func (s *stubSlotsProvider) Execute(_ context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	s.mu.Lock()
	s.calls++
	fn := s.fn
	s.mu.Unlock()
	return fn(req)
}

type stubCreator struct {
	resp  *create_appointment.Response
	err   error
	calls int
}

func (s *stubCreator) Execute(_ context.Context, _ *create_appointment.Request) (*create_appointment.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func slotsResponse(requiredSlots int, starts ...string) *get_available_slots.Response {
	resp := &get_available_slots.Response{RequiredSlots: requiredSlots}
	for _, start := range starts {
		resp.Slots = append(resp.Slots, get_available_slots.Slot{
			StartTime:       types.TimeString(start),
			DurationMinutes: 30,
			AvailableSpots:  1,
			TotalSpots:      1,
		})
	}
	return resp
}

func newTestManager(slots *stubSlotsProvider, creator *stubCreator) *Manager {
	return NewManager(slots, creator, 30*time.Minute, noopLogger{})
}

// startPickedSession прогоняет сессию до состояния SlotPicked на слоте 10:00
func startPickedSession(t *testing.T, m *Manager) string {
	t.Helper()

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)

	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)

	_, err = m.SelectDate(context.Background(), session.ID, 50, testDate)
	require.NoError(t, err)

	_, err = m.PickSlot(context.Background(), session.ID, 50, types.TimeString("10:00"))
	require.NoError(t, err)

	return session.ID
}

func TestManager_StartSession(t *testing.T) {
	m := newTestManager(&stubSlotsProvider{}, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, StateIdle, session.State)
	assert.Nil(t, session.SelectedDate)
	assert.Nil(t, session.PickedSlot)
}

func TestManager_SelectDate_RequiresServices(t *testing.T) {
	m := newTestManager(&stubSlotsProvider{}, &stubCreator{})
	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)

	_, err = m.SelectDate(context.Background(), session.ID, 50, testDate)

	require.ErrorIs(t, err, ErrNoServicesSelected)
}

func TestManager_SelectDate_LoadsSlots(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(2, "09:00", "10:00", "10:30"), nil
	}}
	m := newTestManager(slots, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)

	updated, err := m.SelectDate(context.Background(), session.ID, 50, testDate)

	require.NoError(t, err)
	assert.Equal(t, StateDateSelected, updated.State)
	assert.Equal(t, 2, updated.RequiredSlots)
	assert.Len(t, updated.Slots, 3)
	assert.False(t, updated.FetchFailed)
}

func TestManager_PickSlot(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00", "10:30"), nil
	}}
	m := newTestManager(slots, &stubCreator{})
	sessionID := startPickedSession(t, m)

	session, err := m.GetSession(context.Background(), sessionID, 50)

	require.NoError(t, err)
	assert.Equal(t, StateSlotPicked, session.State)
	require.NotNil(t, session.PickedSlot)
	assert.Equal(t, types.TimeString("10:00"), *session.PickedSlot)
}

func TestManager_PickSlot_UnavailableIsNoOp(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	m := newTestManager(slots, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)
	_, err = m.SelectDate(context.Background(), session.ID, 50, testDate)
	require.NoError(t, err)

	// Слота 11:00 нет в списке доступных - выбор не регистрируется
	_, err = m.PickSlot(context.Background(), session.ID, 50, types.TimeString("11:00"))

	require.ErrorIs(t, err, ErrSlotNotAvailable)

	current, err := m.GetSession(context.Background(), session.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, StateDateSelected, current.State)
	assert.Nil(t, current.PickedSlot)
}

func TestManager_DateChangeClearsPick(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	m := newTestManager(slots, &stubCreator{})
	sessionID := startPickedSession(t, m)

	nextDay := testDate.AddDate(0, 0, 1)
	updated, err := m.SelectDate(context.Background(), sessionID, 50, nextDay)

	require.NoError(t, err)
	assert.Equal(t, StateDateSelected, updated.State)
	assert.Nil(t, updated.PickedSlot)
	assert.Equal(t, 2, slots.calls) // первичная загрузка + смена даты
}

func TestManager_ServiceChangeClearsPickAndRecomputesSlots(t *testing.T) {
	// Одна услуга 30 минут -> 1 слот; три услуги суммарно 90 минут -> 3 слота
	slots := &stubSlotsProvider{fn: func(req *get_available_slots.Request) (*get_available_slots.Response, error) {
		if len(req.ServiceIDs) == 1 {
			return slotsResponse(1, "10:00", "10:30"), nil
		}
		return slotsResponse(3, "10:00"), nil
	}}
	m := newTestManager(slots, &stubCreator{})
	sessionID := startPickedSession(t, m)

	updated, err := m.SelectServices(context.Background(), sessionID, 50, []int64{3, 4, 5})

	require.NoError(t, err)
	assert.Nil(t, updated.PickedSlot)
	assert.Equal(t, StateDateSelected, updated.State)
	assert.Equal(t, 3, updated.RequiredSlots)
	assert.Len(t, updated.Slots, 1)
}

func TestManager_SelectServices_BeforeDateDoesNotFetch(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	m := newTestManager(slots, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)

	updated, err := m.SelectServices(context.Background(), session.ID, 50, []int64{3})

	require.NoError(t, err)
	assert.Equal(t, StateIdle, updated.State)
	assert.Equal(t, []int64{3}, updated.ServiceIDs)
	assert.Zero(t, slots.calls)
}

func TestManager_FetchFailure(t *testing.T) {
	fetchErr := errors.New("occupancy backend down")
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return nil, fetchErr
	}}
	m := newTestManager(slots, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)

	_, err = m.SelectDate(context.Background(), session.ID, 50, testDate)
	require.ErrorIs(t, err, ErrAvailabilityUnknown)

	// Под флагом ошибки ни один слот не считается доступным
	current, err := m.GetSession(context.Background(), session.ID, 50)
	require.NoError(t, err)
	assert.True(t, current.FetchFailed)
	assert.Empty(t, current.Slots)

	_, err = m.PickSlot(context.Background(), session.ID, 50, types.TimeString("10:00"))
	require.ErrorIs(t, err, ErrAvailabilityUnknown)
}

// Отказ валидации даты не маскируется под ошибку загрузки занятости:
// некорректная дата отклоняется, а сессия сохраняет прежний выбор
func TestManager_PastDateRejected(t *testing.T) {
	pastDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	slots := &stubSlotsProvider{fn: func(req *get_available_slots.Request) (*get_available_slots.Response, error) {
		if req.Date.Equal(pastDate) {
			return nil, get_available_slots.ErrInvalidDate
		}
		return slotsResponse(1, "10:00"), nil
	}}
	m := newTestManager(slots, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)
	_, err = m.SelectDate(context.Background(), session.ID, 50, testDate)
	require.NoError(t, err)

	_, err = m.SelectDate(context.Background(), session.ID, 50, pastDate)

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrAvailabilityUnknown)

	// Сессия осталась на прежней дате, слоты не сброшены
	current, err := m.GetSession(context.Background(), session.ID, 50)
	require.NoError(t, err)
	assert.False(t, current.FetchFailed)
	require.NotNil(t, current.SelectedDate)
	assert.True(t, current.SelectedDate.Equal(testDate))
	assert.Len(t, current.Slots, 1)

	_, err = m.PickSlot(context.Background(), session.ID, 50, types.TimeString("10:00"))
	require.NoError(t, err)
}

func TestManager_RejectedServicesRevertSelection(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(req *get_available_slots.Request) (*get_available_slots.Response, error) {
		for _, id := range req.ServiceIDs {
			if id == 99 {
				return nil, get_available_slots.ErrServiceNotProvidedByStaff
			}
		}
		return slotsResponse(1, "10:00"), nil
	}}
	m := newTestManager(slots, &stubCreator{})
	sessionID := startPickedSession(t, m)

	_, err := m.SelectServices(context.Background(), sessionID, 50, []int64{99})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrAvailabilityUnknown)

	// Прежний набор услуг и выбранный слот сохранены
	current, err := m.GetSession(context.Background(), sessionID, 50)
	require.NoError(t, err)
	assert.False(t, current.FetchFailed)
	assert.Equal(t, []int64{3}, current.ServiceIDs)
	require.NotNil(t, current.PickedSlot)
	assert.Equal(t, types.TimeString("10:00"), *current.PickedSlot)
	assert.Equal(t, StateSlotPicked, current.State)
}

func TestManager_StaleAvailabilityDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	slots := &stubSlotsProvider{}
	slots.fn = func(req *get_available_slots.Request) (*get_available_slots.Response, error) {
		if req.Date.Equal(testDate) {
			close(firstStarted)
			<-releaseFirst
			// Устаревший ответ для первой даты
			return slotsResponse(1, "09:00"), nil
		}
		return slotsResponse(1, "15:00"), nil
	}
	m := newTestManager(slots, &stubCreator{})

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = m.SelectDate(context.Background(), session.ID, 50, testDate)
	}()

	// Дожидаемся, пока первый запрос повиснет, и меняем дату
	<-firstStarted
	nextDay := testDate.AddDate(0, 0, 1)
	updated, err := m.SelectDate(context.Background(), session.ID, 50, nextDay)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("15:00"), updated.Slots[0].StartTime)

	// Отпускаем первый запрос - его результат должен быть отброшен
	close(releaseFirst)
	wg.Wait()

	current, err := m.GetSession(context.Background(), session.ID, 50)
	require.NoError(t, err)
	require.Len(t, current.Slots, 1)
	assert.Equal(t, types.TimeString("15:00"), current.Slots[0].StartTime)
}

func TestManager_Submit(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	creator := &stubCreator{resp: &create_appointment.Response{ID: 42, Status: "pending"}}
	m := newTestManager(slots, creator)
	sessionID := startPickedSession(t, m)

	session, err := m.Submit(context.Background(), sessionID, 50, nil)

	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, session.State)
	require.NotNil(t, session.AppointmentID)
	assert.Equal(t, int64(42), *session.AppointmentID)
	assert.Equal(t, 1, creator.calls)
}

func TestManager_Submit_WithoutPick(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	creator := &stubCreator{}
	m := newTestManager(slots, creator)

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.SelectServices(context.Background(), session.ID, 50, []int64{3})
	require.NoError(t, err)
	_, err = m.SelectDate(context.Background(), session.ID, 50, testDate)
	require.NoError(t, err)

	_, err = m.Submit(context.Background(), session.ID, 50, nil)

	require.ErrorIs(t, err, ErrNoSlotPicked)
	// Локальная проверка - до создания записи дело не дошло
	assert.Zero(t, creator.calls)
}

func TestManager_Submit_FailureKeepsPick(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	creator := &stubCreator{err: errors.New("slot already taken")}
	m := newTestManager(slots, creator)
	sessionID := startPickedSession(t, m)

	_, err := m.Submit(context.Background(), sessionID, 50, nil)
	require.Error(t, err)

	// Сессия остаётся в SlotPicked, повтор возможен
	current, err := m.GetSession(context.Background(), sessionID, 50)
	require.NoError(t, err)
	assert.Equal(t, StateSlotPicked, current.State)
	require.NotNil(t, current.PickedSlot)

	creator.err = nil
	creator.resp = &create_appointment.Response{ID: 77}
	confirmed, err := m.Submit(context.Background(), sessionID, 50, nil)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, confirmed.State)
}

func TestManager_Submit_AlreadyConfirmed(t *testing.T) {
	slots := &stubSlotsProvider{fn: func(_ *get_available_slots.Request) (*get_available_slots.Response, error) {
		return slotsResponse(1, "10:00"), nil
	}}
	creator := &stubCreator{resp: &create_appointment.Response{ID: 42}}
	m := newTestManager(slots, creator)
	sessionID := startPickedSession(t, m)

	_, err := m.Submit(context.Background(), sessionID, 50, nil)
	require.NoError(t, err)

	_, err = m.Submit(context.Background(), sessionID, 50, nil)
	require.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestManager_AccessDenied(t *testing.T) {
	m := newTestManager(&stubSlotsProvider{}, &stubCreator{})
	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)

	_, err = m.GetSession(context.Background(), session.ID, 999)

	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestManager_SessionNotFound(t *testing.T) {
	m := newTestManager(&stubSlotsProvider{}, &stubCreator{})

	_, err := m.GetSession(context.Background(), "missing", 50)

	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SessionExpiry(t *testing.T) {
	m := newTestManager(&stubSlotsProvider{}, &stubCreator{})
	clock := &fixedTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	m.timeProvider = clock

	session, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)

	clock.now = clock.now.Add(31 * time.Minute)

	_, err = m.GetSession(context.Background(), session.ID, 50)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestManager_PruneExpired(t *testing.T) {
	m := newTestManager(&stubSlotsProvider{}, &stubCreator{})
	clock := &fixedTimeProvider{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	m.timeProvider = clock

	_, err := m.StartSession(context.Background(), 50, 1, 7)
	require.NoError(t, err)
	_, err = m.StartSession(context.Background(), 51, 1, 7)
	require.NoError(t, err)

	assert.Zero(t, m.PruneExpired())

	clock.now = clock.now.Add(time.Hour)
	assert.Equal(t, 2, m.PruneExpired())
}
