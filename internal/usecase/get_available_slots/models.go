package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	BusinessID      int64     // ID бизнеса
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Длительность услуги
	IntervalMinutes int       // Шаг генерации; 0 - значение из конфигурации
	StaffID         *int64    // Если задан, занятость считается по сотруднику
}

// Response модель ответа со списком свободных слотов
type Response struct {
	BusinessID      int64
	StaffID         *int64
	Date            time.Time
	IsOpen          bool
	OpenTime        types.TimeString // Пусто, если бизнес закрыт
	CloseTime       types.TimeString
	DurationMinutes int
	IntervalMinutes int
	Slots           []domain.Slot
}
