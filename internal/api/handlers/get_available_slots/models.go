package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/salonkit/booking-service/internal/domain"
	getAvailableSlots "github.com/salonkit/booking-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date          string          `json:"date"`
	CompanyID     int64           `json:"companyId"`
	StaffID       int64           `json:"staffId"`
	ServiceIDs    []int64         `json:"serviceIds"`
	RequiredSlots int             `json:"requiredSlots"`
	Slots         []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		Date:          resp.Date.Format(domain.DateFormat),
		CompanyID:     resp.CompanyID,
		StaffID:       resp.StaffID,
		ServiceIDs:    resp.ServiceIDs,
		RequiredSlots: resp.RequiredSlots,
		Slots:         slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров URL и query
func ToUseCaseRequest(companyID, staffID int64, serviceIDs []int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		CompanyID:  companyID,
		StaffID:    staffID,
		ServiceIDs: serviceIDs,
		Date:       date,
	}, nil
}

// ParseServiceIDs разбирает список ID услуг из query параметра "3,4,5"
func ParseServiceIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
