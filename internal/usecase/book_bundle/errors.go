package book_bundle

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("book_bundle: %w", domain.ErrValidation)

	// ErrDateInPast возвращается, когда дата или время начала уже прошли
	ErrDateInPast = fmt.Errorf("book_bundle: date is in the past: %w", domain.ErrValidation)

	// ErrBundleNotFound возвращается, когда пакет не найден
	ErrBundleNotFound = fmt.Errorf("book_bundle: bundle %w", domain.ErrNotFound)

	// ErrBundleInactive возвращается для выключенного пакета
	ErrBundleInactive = fmt.Errorf("book_bundle: bundle is not active: %w", domain.ErrConflict)

	// ErrBundleOutOfValidity возвращается вне периода действия пакета
	ErrBundleOutOfValidity = fmt.Errorf("book_bundle: bundle is outside its validity period: %w", domain.ErrConflict)

	// ErrBundleSoldOut возвращается, когда лимит погашений исчерпан
	ErrBundleSoldOut = fmt.Errorf("book_bundle: bundle redemption limit reached: %w", domain.ErrConflict)

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = fmt.Errorf("book_bundle: business is closed on this date: %w", domain.ErrUnavailable)

	// ErrOutsideOpenHours возвращается, когда пакет не помещается в часы работы
	ErrOutsideOpenHours = fmt.Errorf("book_bundle: bundle does not fit into open hours: %w", domain.ErrUnavailable)

	// ErrBusinessNotAvailable возвращается, когда бизнес уже занят на это время
	ErrBusinessNotAvailable = fmt.Errorf("book_bundle: business is not available: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда транзакцию не удалось сериализовать после повторов
	ErrConcurrentUpdate = fmt.Errorf("book_bundle: concurrent update: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_bundle: internal error")
)
