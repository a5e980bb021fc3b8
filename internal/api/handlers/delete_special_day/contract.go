package delete_special_day

import (
	"context"
	"time"
)

type AvailabilityService interface {
	DeleteSpecialDay(ctx context.Context, userID, businessID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
