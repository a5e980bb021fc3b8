package complete_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("complete_reservation: %w", domain.ErrValidation)

	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("complete_reservation: reservation %w", domain.ErrNotFound)

	// ErrProductNotFound возвращается, когда товара нет на складе бизнеса
	ErrProductNotFound = fmt.Errorf("complete_reservation: inventory product %w", domain.ErrNotFound)

	// ErrInsufficientStock возвращается, когда остатка товара не хватает
	ErrInsufficientStock = fmt.Errorf("complete_reservation: insufficient stock: %w", domain.ErrValidation)

	// ErrAccessDenied возвращается, когда завершить пытается не бизнес бронирования
	ErrAccessDenied = fmt.Errorf("complete_reservation: %w", domain.ErrUnauthorized)

	// ErrCannotComplete возвращается для отмененных и уже завершенных бронирований
	ErrCannotComplete = fmt.Errorf("complete_reservation: reservation cannot be completed in current status: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда транзакцию не удалось сериализовать после повторов
	ErrConcurrentUpdate = fmt.Errorf("complete_reservation: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_reservation: internal error")
)
