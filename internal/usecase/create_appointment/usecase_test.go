package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/internal/integrations/catalogservice"
	"github.com/salonkit/booking-service/internal/integrations/clientservice"
	configRepo "github.com/salonkit/booking-service/internal/infra/storage/config"
	"github.com/salonkit/booking-service/pkg/types"
)

type stubAppointmentRepo struct {
	existing []*domain.Appointment
	created  *domain.Appointment
	err      error
}

func (s *stubAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	appt.ID = 42
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	s.created = appt
	return appt, nil
}

func (s *stubAppointmentRepo) GetByCompanyWithFilter(_ context.Context, _ domain.CompanyAppointmentsFilter) ([]*domain.Appointment, error) {
	return s.existing, nil
}

type stubConfigRepo struct {
	config *domain.CompanyScheduleConfig
	err    error
}

func (s *stubConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64, _ *int64) (*domain.CompanyScheduleConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.config, nil
}

type stubCatalogClient struct {
	company  *catalogservice.Company
	services map[int64]*catalogservice.Service
	err      error
}

func (s *stubCatalogClient) GetCompany(_ context.Context, _ int64) (*catalogservice.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.company, nil
}

func (s *stubCatalogClient) GetService(_ context.Context, _, serviceID int64) (*catalogservice.Service, error) {
	service, ok := s.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return service, nil
}

type stubClientClient struct {
	client *clientservice.Client
	err    error
}

func (s *stubClientClient) GetClientWithGracefulDegradation(_ context.Context, _ int64) (*clientservice.Client, error) {
	return s.client, s.err
}

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func floatPtr(v float64) *float64 { return &v }

func testCompany() *catalogservice.Company {
	open := "09:00"
	closeAt := "18:00"
	day := catalogservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &closeAt}
	return &catalogservice.Company{
		ID:   1,
		Name: "Салон",
		Staff: []catalogservice.Staff{
			{ID: 7, Name: "Мария", ServiceIDs: []int64{3, 4}, IsActive: true},
		},
		WorkingHours: catalogservice.WeekSchedule{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
			Saturday:  day,
			Sunday:    catalogservice.DaySchedule{IsOpen: false},
		},
	}
}

func testServices() map[int64]*catalogservice.Service {
	return map[int64]*catalogservice.Service{
		3: {ID: 3, CompanyID: 1, Name: "Стрижка", DurationMinutes: 45, Price: floatPtr(1500), StaffIDs: []int64{7}},
		4: {ID: 4, CompanyID: 1, Name: "Укладка", DurationMinutes: 30, Price: floatPtr(1000), StaffIDs: []int64{7}},
	}
}

func testConfig() *domain.CompanyScheduleConfig {
	return &domain.CompanyScheduleConfig{
		ID:                        1,
		CompanyID:                 1,
		SlotDurationMinutes:       30,
		MaxConcurrentAppointments: 1,
		AdvanceBookingDays:        30,
		MinBookingNoticeMinutes:   60,
	}
}

// 2026-09-07 is a Monday
var testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

// now well before testDate so min notice does not apply
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(
	appointments *stubAppointmentRepo,
	configs *stubConfigRepo,
	catalog *stubCatalogClient,
	clients *stubClientClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(appointments, configs, catalog, clients, stubTxManager{}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func defaultRequest() *Request {
	return &Request{
		ClientID:   101,
		CompanyID:  1,
		StaffID:    7,
		ServiceIDs: []int64{3, 4},
		Date:       testDate,
		StartTime:  types.TimeString("10:00"),
	}
}

func TestExecute_CreatesAppointmentWithDenormalizedData(t *testing.T) {
	appointments := &stubAppointmentRepo{}
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101, Name: "Иван", Phone: "+79001234567"}}

	uc := newTestUseCase(appointments, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	// 45 + 30 = 75 минут при шаге 30 → 3 слота
	assert.Equal(t, 75, resp.DurationMinutes)
	assert.Equal(t, 3, resp.RequiredSlots)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Стрижка, Укладка", resp.ServiceNames)
	assert.Equal(t, 2500.0, resp.TotalPrice)
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Иван", *resp.ClientName)

	require.NotNil(t, appointments.created)
	assert.Equal(t, types.TimeString("10:00"), appointments.created.StartTime)
}

func TestExecute_SlotTakenBySpanOfExistingAppointment(t *testing.T) {
	// Существующая запись 10:00 на 2 слота занимает 10:00 и 10:30
	appointments := &stubAppointmentRepo{
		existing: []*domain.Appointment{
			{
				StartTime:     types.TimeString("10:00"),
				RequiredSlots: 2,
				Status:        domain.StatusConfirmed,
			},
		},
	}
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{err: clientservice.ErrServiceDegraded}

	uc := newTestUseCase(appointments, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	t.Run("direct overlap", func(t *testing.T) {
		req := defaultRequest()
		req.ServiceIDs = []int64{4}
		req.StartTime = types.TimeString("10:30")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("span tail hits occupied slot", func(t *testing.T) {
		req := defaultRequest() // 3 слота с 09:30 задевают 10:00
		req.StartTime = types.TimeString("09:30")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("free slot after span", func(t *testing.T) {
		req := defaultRequest()
		req.ServiceIDs = []int64{4}
		req.StartTime = types.TimeString("11:00")
		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestExecute_CancelledAppointmentDoesNotBlockSlot(t *testing.T) {
	appointments := &stubAppointmentRepo{
		existing: []*domain.Appointment{
			{
				StartTime:     types.TimeString("10:00"),
				RequiredSlots: 2,
				Status:        domain.StatusCancelledByClient,
			},
		},
	}
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101, Name: "Иван"}}

	uc := newTestUseCase(appointments, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	req := defaultRequest()
	req.ServiceIDs = []int64{4}
	req.StartTime = types.TimeString("10:00")

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_OffGridTimeRejected(t *testing.T) {
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101}}

	uc := newTestUseCase(&stubAppointmentRepo{}, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	t.Run("not aligned to grid", func(t *testing.T) {
		req := defaultRequest()
		req.StartTime = types.TimeString("10:15")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("span does not fit before closing", func(t *testing.T) {
		req := defaultRequest() // 3 слота с 17:30 выходят за 18:00
		req.StartTime = types.TimeString("17:30")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("before opening", func(t *testing.T) {
		req := defaultRequest()
		req.StartTime = types.TimeString("08:30")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101}}

	// Сейчас 09:30, минимальное уведомление 60 минут: слот 10:00 уже недоступен
	now := time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC)
	uc := newTestUseCase(&stubAppointmentRepo{}, &stubConfigRepo{config: testConfig()}, catalog, clients, now)

	req := defaultRequest()
	req.StartTime = types.TimeString("10:00")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_CompanyClosed(t *testing.T) {
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101}}

	uc := newTestUseCase(&stubAppointmentRepo{}, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	req := defaultRequest()
	// 2026-09-06 - воскресенье
	req.Date = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCompanyClosed)
}

func TestExecute_ClientServiceDegradedStillCreates(t *testing.T) {
	appointments := &stubAppointmentRepo{}
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{err: clientservice.ErrServiceDegraded}

	uc := newTestUseCase(appointments, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.ClientName)
	assert.Nil(t, resp.ClientPhone)
}

func TestExecute_DefaultConfigWhenNotFound(t *testing.T) {
	appointments := &stubAppointmentRepo{}
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101}}

	uc := newTestUseCase(appointments, &stubConfigRepo{err: configRepo.ErrConfigNotFound}, catalog, clients, testNow)

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	// 75 минут при дефолтном шаге 30 → 3 слота
	assert.Equal(t, 3, resp.RequiredSlots)
}

func TestExecute_ValidationErrors(t *testing.T) {
	catalog := &stubCatalogClient{company: testCompany(), services: testServices()}
	clients := &stubClientClient{client: &clientservice.Client{ID: 101}}
	uc := newTestUseCase(&stubAppointmentRepo{}, &stubConfigRepo{config: testConfig()}, catalog, clients, testNow)

	t.Run("unknown service", func(t *testing.T) {
		req := defaultRequest()
		req.ServiceIDs = []int64{99}
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrServiceNotProvidedByStaff)
	})

	t.Run("unknown staff", func(t *testing.T) {
		req := defaultRequest()
		req.StaffID = 99
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("date in past", func(t *testing.T) {
		req := defaultRequest()
		req.Date = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("missing start time", func(t *testing.T) {
		req := defaultRequest()
		req.StartTime = ""
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
