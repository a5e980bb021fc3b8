package businessdirectory

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден в справочнике
	ErrBusinessNotFound = errors.New("businessdirectory client: business not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("businessdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("businessdirectory client: invalid response")
)
