package access

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAccessDenied пользователь не клиент и не владелец/сотрудник бизнеса
	ErrAccessDenied = fmt.Errorf("access: %w", domain.ErrUnauthorized)

	// ErrBusinessNotFound бизнес не найден в справочнике
	ErrBusinessNotFound = fmt.Errorf("access: business %w", domain.ErrNotFound)

	// ErrInternal возвращается при ошибке обращения к справочнику
	ErrInternal = errors.New("access: internal error")
)
