package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	configstorage "github.com/salonkit/booking-service/internal/infra/storage/config"
	"github.com/salonkit/booking-service/internal/integrations/catalogservice"
	"github.com/salonkit/booking-service/internal/service/config/models"
)

// Service сервис управления конфигурациями расписания компании
type Service struct {
	configRepo    ConfigRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewService создает новый сервис конфигурации
func NewService(
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo:    configRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Create создает новую конфигурацию расписания
// Только менеджер компании может создавать конфигурации
func (s *Service) Create(ctx context.Context, req *models.CreateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Creating schedule config for company %d (client: %d)", req.CompanyID, req.ClientID)

	if err := s.validateConfigData(req.SlotDurationMinutes, req.MaxConcurrentAppointments, req.AdvanceBookingDays, req.MinBookingNoticeMinutes); err != nil {
		return nil, err
	}

	company, err := s.catalogClient.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrCompanyNotFound) {
			return nil, fmt.Errorf("%w: company %d", ErrCompanyNotFound, req.CompanyID)
		}
		s.logger.Error("Failed to get company %d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to verify company: %v", ErrInternal, err)
	}

	if !s.isManager(company, req.ClientID) {
		s.logger.Warn("Access denied: client %d is not a manager of company %d", req.ClientID, req.CompanyID)
		return nil, fmt.Errorf("%w: client %d is not a manager of company %d", ErrAccessDenied, req.ClientID, req.CompanyID)
	}

	// Проверяем существование мастера, если конфигурация для конкретного мастера
	if req.StaffID != nil {
		staff := findStaff(company, *req.StaffID)
		if staff == nil {
			return nil, fmt.Errorf("%w: staff %d in company %d", ErrStaffNotFound, *req.StaffID, req.CompanyID)
		}
	}

	// Проверяем существование услуги, если конфигурация для конкретной услуги
	if req.ServiceID != nil {
		if err := s.checkServiceExists(ctx, req.CompanyID, *req.ServiceID, req.StaffID, company); err != nil {
			return nil, err
		}
	}

	// Проверяем, что конфигурация с таким ключом еще не существует
	existing, err := s.configRepo.GetByCompanyStaffAndService(ctx, req.CompanyID, req.StaffID, req.ServiceID)
	if err != nil && !errors.Is(err, configstorage.ErrConfigNotFound) {
		s.logger.Error("Failed to check existing config: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing config: %v", ErrInternal, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: config for company %d with this staff/service combination", ErrConfigAlreadyExists, req.CompanyID)
	}

	created, err := s.configRepo.Create(ctx, req.ToDomainConfig())
	if err != nil {
		s.logger.Error("Failed to create config for company %d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to create config: %v", ErrInternal, err)
	}

	s.logger.Info("Created schedule config %d for company %d (level: %s)", created.ID, created.CompanyID, s.getConfigLevel(created))
	return models.FromDomainConfig(created), nil
}

// GetByID возвращает конфигурацию по идентификатору
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ConfigResponse, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: config %d", ErrConfigNotFound, id)
		}
		s.logger.Error("Failed to get config %d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// GetWithHierarchy возвращает действующую конфигурацию с учетом иерархии приоритетов:
// мастер+услуга -> мастер -> услуга -> глобальная для компании.
// Если ни одна конфигурация не найдена, возвращается ErrConfigNotFound -
// подстановку значений по умолчанию выполняет вызывающая сторона
func (s *Service) GetWithHierarchy(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	config, err := s.configRepo.GetConfigWithHierarchy(ctx, req.CompanyID, req.StaffID, req.ServiceID)
	if err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: company %d", ErrConfigNotFound, req.CompanyID)
		}
		s.logger.Error("Failed to get config with hierarchy for company %d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// GetAllByCompany возвращает все конфигурации компании
// Только менеджер компании может просматривать список конфигураций
func (s *Service) GetAllByCompany(ctx context.Context, clientID, companyID int64) (*models.ConfigListResponse, error) {
	company, err := s.catalogClient.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrCompanyNotFound) {
			return nil, fmt.Errorf("%w: company %d", ErrCompanyNotFound, companyID)
		}
		s.logger.Error("Failed to get company %d: %v", companyID, err)
		return nil, fmt.Errorf("%w: failed to verify company: %v", ErrInternal, err)
	}

	if !s.isManager(company, clientID) {
		return nil, fmt.Errorf("%w: client %d is not a manager of company %d", ErrAccessDenied, clientID, companyID)
	}

	configs, err := s.configRepo.GetAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to get configs for company %d: %v", companyID, err)
		return nil, fmt.Errorf("%w: failed to get configs: %v", ErrInternal, err)
	}

	return models.FromDomainConfigList(configs), nil
}

// Update обновляет конфигурацию расписания
// Обновляются только переданные поля, остальные не изменяются
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Updating schedule config %d (client: %d)", id, req.ClientID)

	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: config %d", ErrConfigNotFound, id)
		}
		s.logger.Error("Failed to get config %d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, config.CompanyID, req.ClientID); err != nil {
		return nil, err
	}

	// Валидируем итоговые значения на временной копии,
	// чтобы не трогать оригинал при невалидном запросе
	updated := *config
	req.ApplyToConfig(&updated)
	if err := s.validateConfigData(updated.SlotDurationMinutes, updated.MaxConcurrentAppointments, updated.AdvanceBookingDays, updated.MinBookingNoticeMinutes); err != nil {
		return nil, err
	}

	req.ApplyToConfig(config)
	result, err := s.configRepo.Update(ctx, id, config)
	if err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: config %d", ErrConfigNotFound, id)
		}
		s.logger.Error("Failed to update config %d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to update config: %v", ErrInternal, err)
	}

	s.logger.Info("Updated schedule config %d for company %d", result.ID, result.CompanyID)
	return models.FromDomainConfig(result), nil
}

// Delete удаляет конфигурацию по идентификатору
func (s *Service) Delete(ctx context.Context, clientID, id int64) error {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return fmt.Errorf("%w: config %d", ErrConfigNotFound, id)
		}
		s.logger.Error("Failed to get config %d: %v", id, err)
		return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, config.CompanyID, clientID); err != nil {
		return err
	}

	if err := s.configRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return fmt.Errorf("%w: config %d", ErrConfigNotFound, id)
		}
		s.logger.Error("Failed to delete config %d: %v", id, err)
		return fmt.Errorf("%w: failed to delete config: %v", ErrInternal, err)
	}

	s.logger.Info("Deleted schedule config %d for company %d (client: %d)", id, config.CompanyID, clientID)
	return nil
}

// DeleteByKey удаляет конфигурацию по ключу (компания + мастер + услуга)
func (s *Service) DeleteByKey(ctx context.Context, req *models.DeleteConfigRequest) error {
	if err := s.checkManagerAccess(ctx, req.CompanyID, req.ClientID); err != nil {
		return err
	}

	if err := s.configRepo.DeleteByCompanyStaffAndService(ctx, req.CompanyID, req.StaffID, req.ServiceID); err != nil {
		if errors.Is(err, configstorage.ErrConfigNotFound) {
			return fmt.Errorf("%w: config for this staff/service combination in company %d", ErrConfigNotFound, req.CompanyID)
		}
		s.logger.Error("Failed to delete config by key for company %d: %v", req.CompanyID, err)
		return fmt.Errorf("%w: failed to delete config: %v", ErrInternal, err)
	}

	s.logger.Info("Deleted schedule config by key for company %d (client: %d)", req.CompanyID, req.ClientID)
	return nil
}

// checkManagerAccess проверяет, что клиент является менеджером компании
func (s *Service) checkManagerAccess(ctx context.Context, companyID, clientID int64) error {
	company, err := s.catalogClient.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrCompanyNotFound) {
			return fmt.Errorf("%w: company %d", ErrCompanyNotFound, companyID)
		}
		s.logger.Error("Failed to get company %d: %v", companyID, err)
		return fmt.Errorf("%w: failed to verify company: %v", ErrInternal, err)
	}

	if !s.isManager(company, clientID) {
		s.logger.Warn("Access denied: client %d is not a manager of company %d", clientID, companyID)
		return fmt.Errorf("%w: client %d is not a manager of company %d", ErrAccessDenied, clientID, companyID)
	}

	return nil
}

// checkServiceExists проверяет, что услуга существует в компании,
// а при заданном мастере - что мастер выполняет эту услугу
func (s *Service) checkServiceExists(ctx context.Context, companyID, serviceID int64, staffID *int64, company *catalogservice.Company) error {
	service, err := s.catalogClient.GetService(ctx, companyID, serviceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			return fmt.Errorf("%w: service %d in company %d", ErrServiceNotFound, serviceID, companyID)
		}
		s.logger.Error("Failed to get service %d: %v", serviceID, err)
		return fmt.Errorf("%w: failed to verify service: %v", ErrInternal, err)
	}

	if staffID != nil {
		staff := findStaff(company, *staffID)
		if staff == nil {
			return fmt.Errorf("%w: staff %d in company %d", ErrStaffNotFound, *staffID, companyID)
		}

		provides := false
		for _, id := range staff.ServiceIDs {
			if id == service.ID {
				provides = true
				break
			}
		}
		if !provides {
			return fmt.Errorf("%w: staff %d does not provide service %d", ErrInvalidInput, *staffID, serviceID)
		}
	}

	return nil
}

// validateConfigData проверяет бизнес-ограничения значений конфигурации.
// Шаг слота обязан делить час нацело, иначе сетка слотов не сойдется
// с началом рабочего дня
func (s *Service) validateConfigData(slotDuration, maxConcurrent, advanceDays, noticeMinutes int) error {
	if slotDuration < domain.MinSlotDurationMinutes || slotDuration > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if 60%slotDuration != 0 {
		return fmt.Errorf("%w: slot duration %d must evenly divide 60 minutes", ErrInvalidInput, slotDuration)
	}
	if maxConcurrent < domain.MinConcurrentAppointments || maxConcurrent > domain.MaxConcurrentAppointments {
		return fmt.Errorf("%w: max concurrent appointments must be between %d and %d",
			ErrInvalidInput, domain.MinConcurrentAppointments, domain.MaxConcurrentAppointments)
	}
	if advanceDays < domain.MinAdvanceBookingDays || advanceDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if noticeMinutes < domain.MinBookingNoticeMinutes || noticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: min booking notice must be between %d and %d minutes",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	return nil
}

// isManager проверяет, входит ли клиент в список менеджеров компании
func (s *Service) isManager(company *catalogservice.Company, clientID int64) bool {
	for _, managerID := range company.ManagerIDs {
		if managerID == clientID {
			return true
		}
	}
	return false
}

// getConfigLevel возвращает уровень конфигурации для логирования
func (s *Service) getConfigLevel(config *domain.CompanyScheduleConfig) string {
	switch {
	case config.IsServiceWithStaff():
		return "staff+service"
	case config.IsStaffSpecific():
		return "staff"
	case config.IsServiceSpecific():
		return "service"
	default:
		return "global"
	}
}

// findStaff ищет мастера в списке сотрудников компании
func findStaff(company *catalogservice.Company, staffID int64) *catalogservice.Staff {
	for i := range company.Staff {
		if company.Staff[i].ID == staffID {
			return &company.Staff[i]
		}
	}
	return nil
}
