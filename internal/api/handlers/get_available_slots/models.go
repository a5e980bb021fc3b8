package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// SlotResponse свободный слот
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	BusinessID      int64          `json:"businessId"`
	StaffID         *int64         `json:"staffId,omitempty"`
	Date            string         `json:"date"`
	IsOpen          bool           `json:"isOpen"`
	OpenTime        string         `json:"openTime,omitempty"`
	CloseTime       string         `json:"closeTime,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	IntervalMinutes int            `json:"intervalMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос из query параметров
// date и duration обязательны, interval и staffId нет
func ToUseCaseRequest(businessID int64, q url.Values) (*getAvailableSlots.Request, error) {
	date, err := handlers.ParseDate(q.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	duration, err := strconv.Atoi(q.Get("duration"))
	if err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}

	req := &getAvailableSlots.Request{
		BusinessID:      businessID,
		Date:            date,
		DurationMinutes: duration,
	}

	if raw := q.Get("interval"); raw != "" {
		interval, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("interval: %w", err)
		}
		req.IntervalMinutes = interval
	}

	req.StaffID, err = handlers.OptionalInt64(q.Get("staffId"))
	if err != nil {
		return nil, fmt.Errorf("staffId: %w", err)
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.Start.String(),
			EndTime:   s.End.String(),
		})
	}

	return &AvailableSlotsResponse{
		BusinessID:      resp.BusinessID,
		StaffID:         resp.StaffID,
		Date:            resp.Date.Format(domain.DateFormat),
		IsOpen:          resp.IsOpen,
		OpenTime:        resp.OpenTime.String(),
		CloseTime:       resp.CloseTime.String(),
		DurationMinutes: resp.DurationMinutes,
		IntervalMinutes: resp.IntervalMinutes,
		Slots:           slots,
	}
}
