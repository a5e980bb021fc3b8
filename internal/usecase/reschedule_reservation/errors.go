package reschedule_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reschedule_reservation: %w", domain.ErrValidation)

	// ErrDateInPast возвращается, когда новая дата или время начала уже прошли
	ErrDateInPast = fmt.Errorf("reschedule_reservation: date is in the past: %w", domain.ErrValidation)

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reschedule_reservation: reservation %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не клиент и не бизнес бронирования
	ErrAccessDenied = fmt.Errorf("reschedule_reservation: %w", domain.ErrUnauthorized)

	// ErrCannotReschedule возвращается для бронирований не в статусе scheduled/confirmed
	ErrCannotReschedule = fmt.Errorf("reschedule_reservation: reservation cannot be rescheduled in current status: %w", domain.ErrConflict)

	// ErrBusinessClosed возвращается, когда бизнес закрыт в новую дату
	ErrBusinessClosed = fmt.Errorf("reschedule_reservation: business is closed on this date: %w", domain.ErrUnavailable)

	// ErrOutsideOpenHours возвращается, когда новый интервал выходит за часы работы
	ErrOutsideOpenHours = fmt.Errorf("reschedule_reservation: time is outside open hours: %w", domain.ErrUnavailable)

	// ErrStaffNotAvailable возвращается, когда у сотрудника уже есть бронирование на это время
	ErrStaffNotAvailable = fmt.Errorf("reschedule_reservation: staff member is not available: %w", domain.ErrConflict)

	// ErrBusinessNotAvailable возвращается, когда бизнес уже занят на это время
	ErrBusinessNotAvailable = fmt.Errorf("reschedule_reservation: business is not available: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда транзакцию не удалось сериализовать после повторов
	ErrConcurrentUpdate = fmt.Errorf("reschedule_reservation: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_reservation: internal error")
)
