package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	configstorage "github.com/salonkit/booking-service/internal/infra/storage/config"
	"github.com/salonkit/booking-service/internal/integrations/catalogservice"
	"github.com/salonkit/booking-service/internal/service/config/models"
	"github.com/salonkit/booking-service/pkg/ptr"
)

type stubConfigRepo struct {
	byID        map[int64]*domain.CompanyScheduleConfig
	byKey       *domain.CompanyScheduleConfig
	byKeyErr    error
	hierarchy   *domain.CompanyScheduleConfig
	hierErr     error
	all         []*domain.CompanyScheduleConfig
	created     *domain.CompanyScheduleConfig
	updated     *domain.CompanyScheduleConfig
	deleteErr   error
	deleteByKey error
}

func (s *stubConfigRepo) Create(_ context.Context, config *domain.CompanyScheduleConfig) (*domain.CompanyScheduleConfig, error) {
	created := *config
	created.ID = 101
	s.created = &created
	return &created, nil
}

func (s *stubConfigRepo) GetByID(_ context.Context, id int64) (*domain.CompanyScheduleConfig, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, configstorage.ErrConfigNotFound
}

func (s *stubConfigRepo) GetByCompanyStaffAndService(_ context.Context, _ int64, _ *int64, _ *int64) (*domain.CompanyScheduleConfig, error) {
	if s.byKeyErr != nil {
		return nil, s.byKeyErr
	}
	if s.byKey == nil {
		return nil, configstorage.ErrConfigNotFound
	}
	return s.byKey, nil
}

func (s *stubConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64, _ *int64) (*domain.CompanyScheduleConfig, error) {
	if s.hierErr != nil {
		return nil, s.hierErr
	}
	return s.hierarchy, nil
}

func (s *stubConfigRepo) GetAllByCompany(_ context.Context, _ int64) ([]*domain.CompanyScheduleConfig, error) {
	return s.all, nil
}

func (s *stubConfigRepo) Update(_ context.Context, id int64, config *domain.CompanyScheduleConfig) (*domain.CompanyScheduleConfig, error) {
	updated := *config
	updated.ID = id
	s.updated = &updated
	return &updated, nil
}

func (s *stubConfigRepo) Delete(_ context.Context, _ int64) error {
	return s.deleteErr
}

func (s *stubConfigRepo) DeleteByCompanyStaffAndService(_ context.Context, _ int64, _ *int64, _ *int64) error {
	return s.deleteByKey
}

type stubCatalogClient struct {
	company    *catalogservice.Company
	companyErr error
	services   map[int64]*catalogservice.Service
}

func (s *stubCatalogClient) GetCompany(_ context.Context, _ int64) (*catalogservice.Company, error) {
	if s.companyErr != nil {
		return nil, s.companyErr
	}
	return s.company, nil
}

func (s *stubCatalogClient) GetService(_ context.Context, _ int64, serviceID int64) (*catalogservice.Service, error) {
	if svc, ok := s.services[serviceID]; ok {
		return svc, nil
	}
	return nil, catalogservice.ErrServiceNotFound
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testCompany() *catalogservice.Company {
	return &catalogservice.Company{
		ID:         1,
		Name:       "Салон «Вишня»",
		ManagerIDs: []int64{100},
		Staff: []catalogservice.Staff{
			{ID: 7, Name: "Анна", ServiceIDs: []int64{3, 4}, IsActive: true},
		},
	}
}

func newTestService(repo *stubConfigRepo, catalog *stubCatalogClient) *Service {
	return NewService(repo, catalog, noopLogger{})
}

func validCreateRequest() *models.CreateConfigRequest {
	return &models.CreateConfigRequest{
		ClientID:                  100,
		CompanyID:                 1,
		SlotDurationMinutes:       30,
		MaxConcurrentAppointments: 2,
		AdvanceBookingDays:        14,
		MinBookingNoticeMinutes:   60,
	}
}

func TestService_Create(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	resp, err := svc.Create(context.Background(), validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, int64(1), resp.CompanyID)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	assert.Nil(t, resp.StaffID)
	assert.Nil(t, resp.ServiceID)
}

func TestService_Create_NotManager(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	req := validCreateRequest()
	req.ClientID = 999

	_, err := svc.Create(context.Background(), req)

	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.created)
}

func TestService_Create_Duplicate(t *testing.T) {
	repo := &stubConfigRepo{byKey: &domain.CompanyScheduleConfig{ID: 5, CompanyID: 1}}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	_, err := svc.Create(context.Background(), validCreateRequest())

	require.ErrorIs(t, err, ErrConfigAlreadyExists)
}

func TestService_Create_StaffNotFound(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	req := validCreateRequest()
	req.StaffID = ptr.Ptr(int64(99))

	_, err := svc.Create(context.Background(), req)

	require.ErrorIs(t, err, ErrStaffNotFound)
}

func TestService_Create_StaffDoesNotProvideService(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{
		company: testCompany(),
		services: map[int64]*catalogservice.Service{
			5: {ID: 5, CompanyID: 1, Name: "Маникюр", DurationMinutes: 60},
		},
	}
	svc := newTestService(repo, catalog)

	req := validCreateRequest()
	req.StaffID = ptr.Ptr(int64(7))
	req.ServiceID = ptr.Ptr(int64(5))

	_, err := svc.Create(context.Background(), req)

	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Create_ValidationBounds(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	tests := []struct {
		name   string
		mutate func(*models.CreateConfigRequest)
	}{
		{"slot duration too small", func(r *models.CreateConfigRequest) { r.SlotDurationMinutes = 3 }},
		{"slot duration too large", func(r *models.CreateConfigRequest) { r.SlotDurationMinutes = 90 }},
		{"slot duration does not divide hour", func(r *models.CreateConfigRequest) { r.SlotDurationMinutes = 45 }},
		{"zero max concurrent", func(r *models.CreateConfigRequest) { r.MaxConcurrentAppointments = 0 }},
		{"too many concurrent", func(r *models.CreateConfigRequest) { r.MaxConcurrentAppointments = 500 }},
		{"negative advance days", func(r *models.CreateConfigRequest) { r.AdvanceBookingDays = -1 }},
		{"advance days over a year", func(r *models.CreateConfigRequest) { r.AdvanceBookingDays = 400 }},
		{"negative notice", func(r *models.CreateConfigRequest) { r.MinBookingNoticeMinutes = -5 }},
		{"notice over a week", func(r *models.CreateConfigRequest) { r.MinBookingNoticeMinutes = 20000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)

			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_GetWithHierarchy_NotFound(t *testing.T) {
	repo := &stubConfigRepo{hierErr: configstorage.ErrConfigNotFound}
	svc := newTestService(repo, &stubCatalogClient{})

	_, err := svc.GetWithHierarchy(context.Background(), &models.GetConfigRequest{CompanyID: 1})

	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestService_GetWithHierarchy(t *testing.T) {
	repo := &stubConfigRepo{
		hierarchy: &domain.CompanyScheduleConfig{
			ID:                        5,
			CompanyID:                 1,
			StaffID:                   ptr.Ptr(int64(7)),
			SlotDurationMinutes:       15,
			MaxConcurrentAppointments: 1,
		},
	}
	svc := newTestService(repo, &stubCatalogClient{})

	resp, err := svc.GetWithHierarchy(context.Background(), &models.GetConfigRequest{
		CompanyID: 1,
		StaffID:   ptr.Ptr(int64(7)),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, 15, resp.SlotDurationMinutes)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(7), *resp.StaffID)
}

func TestService_GetAllByCompany_NotManager(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	_, err := svc.GetAllByCompany(context.Background(), 999, 1)

	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Update_PartialFields(t *testing.T) {
	existing := &domain.CompanyScheduleConfig{
		ID:                        5,
		CompanyID:                 1,
		SlotDurationMinutes:       30,
		MaxConcurrentAppointments: 2,
		AdvanceBookingDays:        14,
		MinBookingNoticeMinutes:   60,
	}
	repo := &stubConfigRepo{byID: map[int64]*domain.CompanyScheduleConfig{5: existing}}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	resp, err := svc.Update(context.Background(), 5, &models.UpdateConfigRequest{
		ClientID:            100,
		SlotDurationMinutes: ptr.Ptr(15),
	})

	require.NoError(t, err)
	assert.Equal(t, 15, resp.SlotDurationMinutes)
	// Непереданные поля остаются прежними
	assert.Equal(t, 2, resp.MaxConcurrentAppointments)
	assert.Equal(t, 14, resp.AdvanceBookingDays)
}

func TestService_Update_InvalidResultRejected(t *testing.T) {
	existing := &domain.CompanyScheduleConfig{
		ID:                        5,
		CompanyID:                 1,
		SlotDurationMinutes:       30,
		MaxConcurrentAppointments: 2,
	}
	repo := &stubConfigRepo{byID: map[int64]*domain.CompanyScheduleConfig{5: existing}}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	_, err := svc.Update(context.Background(), 5, &models.UpdateConfigRequest{
		ClientID:            100,
		SlotDurationMinutes: ptr.Ptr(45),
	})

	require.ErrorIs(t, err, ErrInvalidInput)
	// Оригинал не изменился
	assert.Equal(t, 30, existing.SlotDurationMinutes)
	assert.Nil(t, repo.updated)
}

func TestService_Update_NotFound(t *testing.T) {
	repo := &stubConfigRepo{byID: map[int64]*domain.CompanyScheduleConfig{}}
	svc := newTestService(repo, &stubCatalogClient{company: testCompany()})

	_, err := svc.Update(context.Background(), 404, &models.UpdateConfigRequest{ClientID: 100})

	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestService_Delete(t *testing.T) {
	existing := &domain.CompanyScheduleConfig{ID: 5, CompanyID: 1, SlotDurationMinutes: 30}
	repo := &stubConfigRepo{byID: map[int64]*domain.CompanyScheduleConfig{5: existing}}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	err := svc.Delete(context.Background(), 100, 5)

	require.NoError(t, err)
}

func TestService_DeleteByKey_NotFound(t *testing.T) {
	repo := &stubConfigRepo{deleteByKey: configstorage.ErrConfigNotFound}
	catalog := &stubCatalogClient{company: testCompany()}
	svc := newTestService(repo, catalog)

	err := svc.DeleteByKey(context.Background(), &models.DeleteConfigRequest{
		ClientID:  100,
		CompanyID: 1,
		StaffID:   ptr.Ptr(int64(7)),
	})

	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestService_CompanyNotFound(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{companyErr: catalogservice.ErrCompanyNotFound}
	svc := newTestService(repo, catalog)

	_, err := svc.Create(context.Background(), validCreateRequest())

	require.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestService_Create_CatalogUnavailable(t *testing.T) {
	repo := &stubConfigRepo{}
	catalog := &stubCatalogClient{companyErr: errors.New("connection refused")}
	svc := newTestService(repo, catalog)

	_, err := svc.Create(context.Background(), validCreateRequest())

	require.ErrorIs(t, err, ErrInternal)
}
