package cancel_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return nil
}

// cancellationNote строка, дописываемая в заметки при отмене
func cancellationNote(reason *string) string {
	if reason == nil || *reason == "" {
		return domain.CancellationNoteDefault
	}
	return domain.CancellationNotePrefix + *reason
}

// appendNote дописывает строку к заметкам, не затирая прежние
func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
