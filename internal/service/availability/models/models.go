package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidDay возвращается при некорректном дне недели
	ErrInvalidDay = errors.New("dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")

	// ErrInvalidHours возвращается, когда время открытия не раньше закрытия
	ErrInvalidHours = errors.New("openTime must be before closeTime")
)

// Request модели

// WeeklyDayRequest часы работы на один день недели
type WeeklyDayRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// SetWeeklyRequest запрос на замену недельного шаблона
type SetWeeklyRequest struct {
	UserID     int64              `json:"-"`
	BusinessID int64              `json:"-"`
	Days       []WeeklyDayRequest `json:"days"`
}

// SpecialDayRequest запрос на создание/изменение особого дня
type SpecialDayRequest struct {
	UserID     int64   `json:"-"`
	BusinessID int64   `json:"-"`
	Date       string  `json:"date"` // "2026-01-01"
	IsOpen     bool    `json:"isOpen"`
	OpenTime   *string `json:"openTime,omitempty"`
	CloseTime  *string `json:"closeTime,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

// ToDomain конвертирует день недели в domain модель
func (d WeeklyDayRequest) ToDomain(businessID int64) (*domain.BusinessAvailability, error) {
	if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
		return nil, ErrInvalidDay
	}

	a := &domain.BusinessAvailability{
		BusinessID: businessID,
		DayOfWeek:  time.Weekday(d.DayOfWeek),
		IsOpen:     d.IsOpen,
	}
	if !d.IsOpen && d.OpenTime == "" && d.CloseTime == "" {
		return a, nil
	}

	open, err := types.NewTimeStringFromString(d.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("openTime: %w", err)
	}
	closing, err := types.NewTimeStringFromString(d.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("closeTime: %w", err)
	}
	a.OpenTime, a.CloseTime = open, closing

	if !a.HasHours() {
		return nil, ErrInvalidHours
	}
	return a, nil
}

// ToDomain конвертирует особый день в domain модель
func (r *SpecialDayRequest) ToDomain() (*domain.SpecialDayAvailability, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	s := &domain.SpecialDayAvailability{
		BusinessID: r.BusinessID,
		Date:       date,
		IsOpen:     r.IsOpen,
		Reason:     r.Reason,
	}

	// Часы указываются только парой
	if (r.OpenTime == nil) != (r.CloseTime == nil) {
		return nil, fmt.Errorf("openTime and closeTime must be set together")
	}
	if r.OpenTime == nil {
		return s, nil
	}

	if s.OpenTime, err = types.NewTimeStringFromString(*r.OpenTime); err != nil {
		return nil, fmt.Errorf("openTime: %w", err)
	}
	if s.CloseTime, err = types.NewTimeStringFromString(*r.CloseTime); err != nil {
		return nil, fmt.Errorf("closeTime: %w", err)
	}
	if !s.HasCustomHours() {
		return nil, ErrInvalidHours
	}
	return s, nil
}

// Response модели

// WeeklyDayResponse часы работы дня недели
type WeeklyDayResponse struct {
	DayOfWeek int     `json:"dayOfWeek"`
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// WeeklyResponse недельный шаблон бизнеса
type WeeklyResponse struct {
	BusinessID int64               `json:"businessId"`
	Days       []WeeklyDayResponse `json:"days"`
}

// SpecialDayResponse особый день
type SpecialDayResponse struct {
	BusinessID int64   `json:"businessId"`
	Date       string  `json:"date"`
	IsOpen     bool    `json:"isOpen"`
	OpenTime   *string `json:"openTime,omitempty"`
	CloseTime  *string `json:"closeTime,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

// SpecialDayListResponse список особых дней
type SpecialDayListResponse struct {
	Days []SpecialDayResponse `json:"days"`
}

// OpenHoursResponse эффективные часы работы на дату
type OpenHoursResponse struct {
	BusinessID int64   `json:"businessId"`
	Date       string  `json:"date"`
	IsOpen     bool    `json:"isOpen"`
	OpenTime   *string `json:"openTime,omitempty"`
	CloseTime  *string `json:"closeTime,omitempty"`
	Source     string  `json:"source"`
	Reason     *string `json:"reason,omitempty"`
}

// Методы конвертации

func timePtr(t types.TimeString) *string {
	if t.IsZero() {
		return nil
	}
	s := t.String()
	return &s
}

// FromDomainWeekly конвертирует недельный шаблон в DTO
func FromDomainWeekly(businessID int64, days []*domain.BusinessAvailability) *WeeklyResponse {
	resp := &WeeklyResponse{
		BusinessID: businessID,
		Days:       make([]WeeklyDayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, WeeklyDayResponse{
			DayOfWeek: int(d.DayOfWeek),
			IsOpen:    d.IsOpen,
			OpenTime:  timePtr(d.OpenTime),
			CloseTime: timePtr(d.CloseTime),
		})
	}
	return resp
}

// FromDomainSpecialDay конвертирует особый день в DTO
func FromDomainSpecialDay(s *domain.SpecialDayAvailability) SpecialDayResponse {
	return SpecialDayResponse{
		BusinessID: s.BusinessID,
		Date:       s.Date.Format(domain.DateFormat),
		IsOpen:     s.IsOpen,
		OpenTime:   timePtr(s.OpenTime),
		CloseTime:  timePtr(s.CloseTime),
		Reason:     s.Reason,
	}
}

// FromDomainOpenHours конвертирует результат разрешения часов в DTO
func FromDomainOpenHours(businessID int64, date time.Time, h domain.OpenHours) *OpenHoursResponse {
	resp := &OpenHoursResponse{
		BusinessID: businessID,
		Date:       date.Format(domain.DateFormat),
		IsOpen:     h.IsOpen,
		Source:     string(h.Source),
		Reason:     h.Reason,
	}
	if h.IsOpen {
		resp.OpenTime = timePtr(h.OpenTime)
		resp.CloseTime = timePtr(h.CloseTime)
	}
	return resp
}
