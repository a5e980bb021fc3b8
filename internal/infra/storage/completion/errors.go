package completion

import "errors"

var (
	// ErrProductNotFound возвращается, когда товар склада не найден
	ErrProductNotFound = errors.New("completion.repository: inventory product not found")

	// ErrInsufficientStock возвращается, когда на складе меньше, чем списывается
	ErrInsufficientStock = errors.New("completion.repository: insufficient stock")

	// ErrHistoryExists возвращается при повторной записи истории для бронирования
	ErrHistoryExists = errors.New("completion.repository: service history already recorded")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("completion.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("completion.repository: failed to execute query")
)
