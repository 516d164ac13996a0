package get_day_occupancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/availability"
	"github.com/salonkit/booking-service/internal/domain"
	configRepo "github.com/salonkit/booking-service/internal/infra/storage/config"
	"github.com/salonkit/booking-service/pkg/ptr"
)

// UseCase use case для получения занятости мастера на день.
// Используется виджетом и интерфейсом компании для раскраски сетки слотов.
type UseCase struct {
	appointmentRepo AppointmentRepository
	configRepo      ConfigRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, configRepo ConfigRepository, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		configRepo:      configRepo,
		logger:          logger,
	}
}

// Execute выполняет use case получения занятости дня
// При ошибке возвращается пустой набор занятости вместе с ошибкой:
// вызывающая сторона не должна показывать слоты как свободные
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayOccupancy: company=%d, staff=%d, date=%s",
		req.CompanyID, req.StaffID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayOccupancy: validation failed: %v", err)
		return nil, err
	}

	records, err := uc.appointmentRepo.GetDayOccupancy(ctx, req.CompanyID, req.StaffID, req.Date.Format(domain.DateFormat))
	if err != nil {
		uc.logger.Error("GetDayOccupancy: failed to get occupancy: %v", err)
		return emptyResponse(req), fmt.Errorf("%w: failed to get occupancy: %v", ErrInternal, err)
	}

	// Шаг слота нужен для разворота записей в занятые слоты
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.CompanyID, ptr.Ptr(req.StaffID), nil)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetDayOccupancy: failed to get config: %v", err)
		return emptyResponse(req), fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config == nil {
		config = domain.DefaultScheduleConfig()
	}

	counts := availability.Expand(records, config.SlotDurationMinutes)

	resp := &Response{
		Date:      req.Date,
		CompanyID: req.CompanyID,
		StaffID:   req.StaffID,
		Records:   make([]OccupancyRecord, 0, len(records)),
		SlotCount: counts,
	}
	for _, r := range records {
		resp.Records = append(resp.Records, OccupancyRecord{SlotTime: r.SlotTime, Blocks: r.Blocks})
	}

	uc.logger.Info("GetDayOccupancy: %d records, %d occupied slots", len(resp.Records), len(counts))

	return resp, nil
}

func validateRequest(req *Request) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func emptyResponse(req *Request) *Response {
	return &Response{
		Date:      req.Date,
		CompanyID: req.CompanyID,
		StaffID:   req.StaffID,
		Records:   []OccupancyRecord{},
		SlotCount: map[string]int{},
	}
}
