package access

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessdirectory"
)

// BusinessDirectory интерфейс клиента справочника бизнесов
type BusinessDirectory interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessdirectory.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
