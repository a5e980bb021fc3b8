package update_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("update_reservation: %w", domain.ErrValidation)

	// ErrDateInPast возвращается, когда новая дата или время начала уже прошли
	ErrDateInPast = fmt.Errorf("update_reservation: date is in the past: %w", domain.ErrValidation)

	// ErrTerminalStatus возвращается при попытке выставить completed/cancelled через обновление
	ErrTerminalStatus = fmt.Errorf("update_reservation: use complete or cancel for terminal statuses: %w", domain.ErrValidation)

	// ErrBundleStaff возвращается при попытке назначить сотрудника на бронирование пакета:
	// пакет занимает время всего бизнеса
	ErrBundleStaff = fmt.Errorf("update_reservation: bundle reservations are not assigned to staff: %w", domain.ErrValidation)

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("update_reservation: reservation %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не клиент и не бизнес бронирования
	// или клиент пытается изменить поля, доступные только бизнесу
	ErrAccessDenied = fmt.Errorf("update_reservation: %w", domain.ErrUnauthorized)

	// ErrReservationClosed возвращается для завершенных и отмененных бронирований
	ErrReservationClosed = fmt.Errorf("update_reservation: reservation is completed or cancelled: %w", domain.ErrConflict)

	// ErrInvalidTransition возвращается, когда статус нельзя перевести в запрошенный
	ErrInvalidTransition = fmt.Errorf("update_reservation: invalid status transition: %w", domain.ErrConflict)

	// ErrBusinessClosed возвращается, когда бизнес закрыт в новую дату
	ErrBusinessClosed = fmt.Errorf("update_reservation: business is closed on this date: %w", domain.ErrUnavailable)

	// ErrOutsideOpenHours возвращается, когда новый интервал выходит за часы работы
	ErrOutsideOpenHours = fmt.Errorf("update_reservation: time is outside open hours: %w", domain.ErrUnavailable)

	// ErrStaffNotAvailable возвращается, когда у сотрудника уже есть бронирование на это время
	ErrStaffNotAvailable = fmt.Errorf("update_reservation: staff member is not available: %w", domain.ErrConflict)

	// ErrBusinessNotAvailable возвращается, когда бизнес уже занят на это время
	ErrBusinessNotAvailable = fmt.Errorf("update_reservation: business is not available: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда транзакцию не удалось сериализовать после повторов
	ErrConcurrentUpdate = fmt.Errorf("update_reservation: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
