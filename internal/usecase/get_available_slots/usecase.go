package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	configRepo "github.com/salonkit/booking-service/internal/infra/storage/config"
	catalogClient "github.com/salonkit/booking-service/internal/integrations/catalogservice"
	"github.com/salonkit/booking-service/pkg/ptr"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		configRepo:      configRepo,
		catalogClient:   catalogClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: client=%d, company=%d, staff=%d, services=%v, date=%s",
		req.ClientID, req.CompanyID, req.StaffID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем компанию
	company, err := uc.catalogClient.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrCompanyNotFound) {
			uc.logger.Warn("GetAvailableSlots: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	// 4. Проверяем существование и активность мастера
	staff, err := validateStaff(company, req.StaffID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: staff id=%d not found in company id=%d", req.StaffID, req.CompanyID)
		return nil, err
	}

	// 5. Проверяем, что мастер выполняет все выбранные услуги
	if err := validateStaffProvidesServices(staff, req.ServiceIDs); err != nil {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not provide requested services: %v", req.StaffID, err)
		return nil, err
	}

	// 6. Получаем длительности услуг одним batch-запросом
	durations, err := uc.catalogClient.GetServiceDurations(ctx, req.CompanyID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: some services not found: %v", req.ServiceIDs)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service durations: %v", err)
		return nil, fmt.Errorf("%w: failed to get service durations: %v", ErrInternal, err)
	}

	totalDuration, err := totalServiceDuration(req.ServiceIDs, durations)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 7. Получаем конфигурацию расписания с учетом иерархии
	// Для нескольких услуг уровень иерархии по услуге не применим - берем
	// конфигурацию мастера или глобальную
	var serviceIDForConfig *int64
	if len(req.ServiceIDs) == 1 {
		serviceIDForConfig = ptr.Ptr(req.ServiceIDs[0])
	}

	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.CompanyID, ptr.Ptr(req.StaffID), serviceIDForConfig)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// Если конфигурация не найдена, используем дефолтные значения
	if config == nil {
		config = domain.DefaultScheduleConfig()
		uc.logger.Info("GetAvailableSlots: using default config for company=%d, staff=%d", req.CompanyID, req.StaffID)
	} else {
		uc.logger.Info("GetAvailableSlots: using config id=%d", config.ID)
	}

	if err := config.ValidateSlotStep(); err != nil {
		uc.logger.Error("GetAvailableSlots: config id=%d has invalid slot step %d", config.ID, config.SlotDurationMinutes)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 8. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 9. Количество последовательных слотов под суммарную длительность услуг
	requiredSlots := domain.RequiredSlotCount(totalDuration, config.SlotDurationMinutes)

	// 10. Получаем рабочие часы на указанную дату
	workingHours := company.WorkingHoursForDay(req.Date.Weekday())
	if !workingHours.IsOpen {
		uc.logger.Info("GetAvailableSlots: company is closed on %s", req.Date.Format(domain.DateFormat))
		return &Response{
			Date:          req.Date,
			CompanyID:     req.CompanyID,
			StaffID:       req.StaffID,
			ServiceIDs:    req.ServiceIDs,
			RequiredSlots: requiredSlots,
			Slots:         []Slot{},
		}, nil
	}

	// 11. Получаем занятость мастера на эту дату
	occupancy, err := uc.appointmentRepo.GetDayOccupancy(ctx, req.CompanyID, req.StaffID, req.Date.Format(domain.DateFormat))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get day occupancy: %v", err)
		return nil, fmt.Errorf("%w: failed to get day occupancy: %v", ErrInternal, err)
	}

	// 12. Вычисляем доступность для каждого слота
	slots, err := buildAvailableSlots(workingHours, config, occupancy, requiredSlots, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: %d slots available for company=%d, staff=%d, date=%s (required=%d)",
		len(slots), req.CompanyID, req.StaffID, req.Date.Format(domain.DateFormat), requiredSlots)

	return &Response{
		Date:          req.Date,
		CompanyID:     req.CompanyID,
		StaffID:       req.StaffID,
		ServiceIDs:    req.ServiceIDs,
		RequiredSlots: requiredSlots,
		Slots:         slots,
	}, nil
}
