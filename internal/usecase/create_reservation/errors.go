package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_reservation: %w", domain.ErrValidation)

	// ErrDateInPast возвращается, когда дата или время начала уже прошли
	ErrDateInPast = fmt.Errorf("create_reservation: date is in the past: %w", domain.ErrValidation)

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = fmt.Errorf("create_reservation: business is closed on this date: %w", domain.ErrUnavailable)

	// ErrOutsideOpenHours возвращается, когда интервал выходит за часы работы
	ErrOutsideOpenHours = fmt.Errorf("create_reservation: time is outside open hours: %w", domain.ErrUnavailable)

	// ErrStaffNotAvailable возвращается, когда у сотрудника уже есть бронирование на это время
	ErrStaffNotAvailable = fmt.Errorf("create_reservation: staff member is not available: %w", domain.ErrConflict)

	// ErrBusinessNotAvailable возвращается, когда бизнес уже занят на это время
	ErrBusinessNotAvailable = fmt.Errorf("create_reservation: business is not available: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда транзакцию не удалось сериализовать после повторов
	ErrConcurrentUpdate = fmt.Errorf("create_reservation: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
