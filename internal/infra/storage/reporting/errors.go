package reporting

import "errors"

var (
	// ErrQuery возвращается при ошибке выполнения отчетного запроса
	ErrQuery = errors.New("reporting.repository: failed to execute query")
)
