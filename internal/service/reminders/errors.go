package reminders

import "errors"

var (
	// ErrInternal возвращается, когда не удалось выбрать бронирования для рассылки
	ErrInternal = errors.New("reminders: internal error")
)
