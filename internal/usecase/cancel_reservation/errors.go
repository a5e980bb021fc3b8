package cancel_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("cancel_reservation: %w", domain.ErrValidation)

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("cancel_reservation: reservation %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не клиент и не бизнес бронирования
	ErrAccessDenied = fmt.Errorf("cancel_reservation: %w", domain.ErrUnauthorized)

	// ErrCannotCancel возвращается для бронирований в работе или завершенных
	ErrCannotCancel = fmt.Errorf("cancel_reservation: reservation cannot be cancelled in current status: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда транзакцию не удалось сериализовать после повторов
	ErrConcurrentUpdate = fmt.Errorf("cancel_reservation: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)
