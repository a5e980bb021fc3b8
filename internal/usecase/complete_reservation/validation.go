package complete_reservation

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
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if len(req.ProductsUsed) > domain.MaxProductsPerCompletion {
		return fmt.Errorf("%w: at most %d products per completion", ErrInvalidInput, domain.MaxProductsPerCompletion)
	}
	seen := make(map[int64]struct{}, len(req.ProductsUsed))
	for _, p := range req.ProductsUsed {
		if p.ProductID <= 0 {
			return fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("%w: quantity of product %d must be positive", ErrInvalidInput, p.ProductID)
		}
		if _, dup := seen[p.ProductID]; dup {
			return fmt.Errorf("%w: product %d listed twice", ErrInvalidInput, p.ProductID)
		}
		seen[p.ProductID] = struct{}{}
	}

	return nil
}
