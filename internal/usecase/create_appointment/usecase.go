package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/salonkit/booking-service/internal/availability"
	"github.com/salonkit/booking-service/internal/domain"
	configRepo "github.com/salonkit/booking-service/internal/infra/storage/config"
	catalogClient "github.com/salonkit/booking-service/internal/integrations/catalogservice"
	"github.com/salonkit/booking-service/pkg/ptr"
	"github.com/salonkit/booking-service/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	clientClient    ClientServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		configRepo:      configRepo,
		catalogClient:   catalogClient,
		clientClient:    clientClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// два параллельных запроса на один слот не смогут создать пересекающиеся записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, company=%d, staff=%d, services=%v, date=%s, time=%s",
		req.ClientID, req.CompanyID, req.StaffID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем компанию
	company, err := uc.catalogClient.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrCompanyNotFound) {
			uc.logger.Warn("CreateAppointment: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	// 4. Проверяем существование и активность мастера
	staff, err := validateStaff(company, req.StaffID)
	if err != nil {
		uc.logger.Warn("CreateAppointment: staff id=%d not found in company id=%d", req.StaffID, req.CompanyID)
		return nil, err
	}

	// 5. Проверяем, что мастер выполняет все выбранные услуги
	if err := validateStaffProvidesServices(staff, req.ServiceIDs); err != nil {
		uc.logger.Warn("CreateAppointment: staff id=%d does not provide requested services: %v", req.StaffID, err)
		return nil, err
	}

	// 6. Загружаем услуги для денормализации (названия, цены, длительности)
	services := make([]*catalogClient.Service, 0, len(req.ServiceIDs))
	for _, serviceID := range req.ServiceIDs {
		service, err := uc.catalogClient.GetService(ctx, req.CompanyID, serviceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		services = append(services, service)
	}

	totalDuration := totalServicesDuration(services)
	serviceNames := joinServiceNames(services)
	totalPrice := totalServicesPrice(services)

	// 7. Получаем профиль клиента с graceful degradation:
	// недоступность ClientService не блокирует создание записи,
	// просто не заполняем денормализованные имя и телефон
	var clientName, clientPhone *string
	client, err := uc.clientClient.GetClientWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		uc.logger.Warn("CreateAppointment: client profile unavailable for id=%d: %v", req.ClientID, err)
	} else if client != nil {
		clientName = &client.Name
		clientPhone = &client.Phone
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 8. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Получаем конфигурацию расписания с учетом иерархии
		// Для нескольких услуг уровень иерархии по услуге не применим
		var serviceIDForConfig *int64
		if len(req.ServiceIDs) == 1 {
			serviceIDForConfig = ptr.Ptr(req.ServiceIDs[0])
		}

		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, req.CompanyID, ptr.Ptr(req.StaffID), serviceIDForConfig)
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		// Если конфигурация не найдена, используем дефолтные значения
		if config == nil {
			config = domain.DefaultScheduleConfig()
			uc.logger.Info("CreateAppointment: using default config for company=%d, staff=%d", req.CompanyID, req.StaffID)
		} else {
			uc.logger.Info("CreateAppointment: using config id=%d", config.ID)
		}

		if err := config.ValidateSlotStep(); err != nil {
			uc.logger.Error("CreateAppointment: config id=%d has invalid slot step %d", config.ID, config.SlotDurationMinutes)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		// 8.2. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 8.3. Получаем рабочие часы на указанную дату
		workingHours := company.WorkingHoursForDay(req.Date.Weekday())
		if !workingHours.IsOpen || workingHours.OpenTime == nil || workingHours.CloseTime == nil {
			uc.logger.Warn("CreateAppointment: company is closed on %s", req.Date.Format(domain.DateFormat))
			return ErrCompanyClosed
		}

		openTime, err := types.NewTimeStringFromString(*workingHours.OpenTime)
		if err != nil {
			return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
		}
		closeTime, err := types.NewTimeStringFromString(*workingHours.CloseTime)
		if err != nil {
			return fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
		}

		// 8.4. Валидация времени записи (minBookingNoticeMinutes)
		if err := validateBookingTime(req.Date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
			return err
		}

		requiredSlots := domain.RequiredSlotCount(totalDuration, config.SlotDurationMinutes)

		evaluator := availability.Evaluator{
			Open:        openTime,
			Close:       closeTime,
			StepMinutes: config.SlotDurationMinutes,
		}

		// 8.5. Проверяем, что цепочка слотов корректна сама по себе:
		// на сетке и влезает в рабочие часы (без учета занятости)
		if !evaluator.Available(req.StartTime, requiredSlots, nil, req.Date, now, config.MinBookingNoticeMinutes) {
			uc.logger.Warn("CreateAppointment: time slot %s (span %d) is not on the grid or does not fit working hours",
				req.StartTime, requiredSlots)
			return ErrInvalidTimeSlot
		}

		// 8.6. Получаем все активные записи мастера на эту дату с блокировкой (FOR UPDATE)
		filter := domain.CompanyAppointmentsFilter{
			CompanyID:       req.CompanyID,
			StaffID:         &req.StaffID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false, // Только активные записи
		}

		appointments, err := uc.appointmentRepo.GetByCompanyWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 8.7. Проверяем доступность каждого слота цепочки с учетом занятости
		occupancy := occupancyFromAppointments(appointments)
		counts := availability.Expand(occupancy, config.SlotDurationMinutes)
		occupied := availability.OccupiedSet(counts, config.MaxConcurrentAppointments)

		if !evaluator.Available(req.StartTime, requiredSlots, occupied, req.Date, now, config.MinBookingNoticeMinutes) {
			uc.logger.Warn("CreateAppointment: slot %s not available for span of %d", req.StartTime, requiredSlots)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("CreateAppointment: slot %s available for span of %d", req.StartTime, requiredSlots)

		// 8.8. Создаем запись с денормализацией данных
		appt := &domain.Appointment{
			ClientID:        req.ClientID,
			CompanyID:       req.CompanyID,
			StaffID:         req.StaffID,
			ServiceIDs:      req.ServiceIDs,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: totalDuration,
			RequiredSlots:   requiredSlots,
			Status:          domain.StatusPending,
			// Денормализация данных услуг
			ServiceNames: serviceNames,
			TotalPrice:   totalPrice,
			// Денормализация данных клиента
			ClientName:  clientName,
			ClientPhone: clientPhone,
			// Заметки
			Notes: req.Notes,
		}

		// 8.9. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		CompanyID:       result.CompanyID,
		StaffID:         result.StaffID,
		ServiceIDs:      result.ServiceIDs,
		AppointmentDate: result.AppointmentDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		RequiredSlots:   result.RequiredSlots,
		Status:          string(result.Status),
		ServiceNames:    result.ServiceNames,
		TotalPrice:      result.TotalPrice,
		ClientName:      result.ClientName,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// totalServicesDuration суммирует длительности услуг.
// Нулевая длительность заменяется дефолтной, чтобы не получить запись нулевой длины.
func totalServicesDuration(services []*catalogClient.Service) int {
	total := 0
	for _, s := range services {
		minutes := s.DurationMinutes
		if minutes <= 0 {
			minutes = domain.DefaultServiceDurationMinutes
		}
		total += minutes
	}
	return total
}

// joinServiceNames объединяет названия услуг для денормализованной истории
func joinServiceNames(services []*catalogClient.Service) string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

// totalServicesPrice суммирует цены услуг
// Если цена услуги не указана (nil), она считается нулевой
func totalServicesPrice(services []*catalogClient.Service) float64 {
	total := 0.0
	for _, s := range services {
		if s.Price != nil {
			total += *s.Price
		}
	}
	return total
}

// occupancyFromAppointments строит записи занятости из активных записей дня
func occupancyFromAppointments(appointments []*domain.Appointment) []domain.OccupancyRecord {
	records := make([]domain.OccupancyRecord, 0, len(appointments))
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		records = append(records, domain.OccupancyRecord{
			SlotTime: appt.StartTime.SlotKey(),
			Blocks:   appt.RequiredSlots,
		})
	}
	return records
}
