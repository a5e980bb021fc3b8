package get_business_reservations

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(businessID, userID int64, q url.Values) (*models.ListByBusinessRequest, error) {
	req := &models.ListByBusinessRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	staffID, err := handlers.OptionalInt64(q.Get("staffId"))
	if err != nil {
		return nil, fmt.Errorf("staffId: %w", err)
	}
	req.StaffID = staffID

	if req.From, err = handlers.OptionalDate(q.Get("from")); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if req.To, err = handlers.OptionalDate(q.Get("to")); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	// По умолчанию только активные
	if raw := q.Get("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
