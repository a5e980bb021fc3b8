package book_bundle

import (
	"context"

	bookBundle "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_bundle"
)

type BookBundleUseCase interface {
	Execute(ctx context.Context, req *bookBundle.Request) (*bookBundle.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
