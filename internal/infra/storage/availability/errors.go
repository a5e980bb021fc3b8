package availability

import "errors"

var (
	// ErrSpecialDayNotFound возвращается, когда особый день не найден
	ErrSpecialDayNotFound = errors.New("availability.repository: special day not found")

	// ErrInvalidHours возвращается, когда БД отклонила часы работы (CHECK)
	ErrInvalidHours = errors.New("availability.repository: invalid open hours")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
