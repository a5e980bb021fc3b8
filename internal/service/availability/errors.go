package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("availability: %w", domain.ErrValidation)

	// ErrSpecialDayNotFound возвращается, когда особый день не найден
	ErrSpecialDayNotFound = fmt.Errorf("availability: special day %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
