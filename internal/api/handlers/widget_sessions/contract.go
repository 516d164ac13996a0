package widget_sessions

import (
	"context"
	"time"

	"github.com/salonkit/booking-service/internal/widget"
	"github.com/salonkit/booking-service/pkg/types"
)

type WidgetManager interface {
	StartSession(ctx context.Context, clientID, companyID, staffID int64) (*widget.Session, error)
	GetSession(ctx context.Context, sessionID string, clientID int64) (*widget.Session, error)
	SelectDate(ctx context.Context, sessionID string, clientID int64, date time.Time) (*widget.Session, error)
	SelectServices(ctx context.Context, sessionID string, clientID int64, serviceIDs []int64) (*widget.Session, error)
	PickSlot(ctx context.Context, sessionID string, clientID int64, start types.TimeString) (*widget.Session, error)
	Submit(ctx context.Context, sessionID string, clientID int64, notes *string) (*widget.Session, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
