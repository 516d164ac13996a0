package get_day_occupancy

import (
	"context"

	getDayOccupancy "github.com/salonkit/booking-service/internal/usecase/get_day_occupancy"
)

type GetDayOccupancyUseCase interface {
	Execute(ctx context.Context, req *getDayOccupancy.Request) (*getDayOccupancy.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
