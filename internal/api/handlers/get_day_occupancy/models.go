package get_day_occupancy

import (
	"time"

	"github.com/salonkit/booking-service/internal/domain"
	getDayOccupancy "github.com/salonkit/booking-service/internal/usecase/get_day_occupancy"
)

// DayOccupancyResponse HTTP response model
type DayOccupancyResponse struct {
	Date      string            `json:"date"`
	CompanyID int64             `json:"companyId"`
	StaffID   int64             `json:"staffId"`
	Records   []OccupancyRecord `json:"records"`
	SlotCount map[string]int    `json:"slotCount"`
}

// OccupancyRecord занятость одной записи
type OccupancyRecord struct {
	SlotTime string `json:"slotTime"` // "HH:MM:SS"
	Blocks   int    `json:"blocks"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDayOccupancy.Response) *DayOccupancyResponse {
	records := make([]OccupancyRecord, len(resp.Records))
	for i, record := range resp.Records {
		records[i] = OccupancyRecord{
			SlotTime: record.SlotTime,
			Blocks:   record.Blocks,
		}
	}

	return &DayOccupancyResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		CompanyID: resp.CompanyID,
		StaffID:   resp.StaffID,
		Records:   records,
		SlotCount: resp.SlotCount,
	}
}

// ToUseCaseRequest создает запрос use case из параметров URL и query
func ToUseCaseRequest(companyID, staffID int64, dateStr string) (*getDayOccupancy.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getDayOccupancy.Request{
		CompanyID: companyID,
		StaffID:   staffID,
		Date:      date,
	}, nil
}
