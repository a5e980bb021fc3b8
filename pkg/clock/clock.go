package clock

import "time"

// Real провайдер текущего времени для production
type Real struct{}

// Now возвращает текущее время в UTC: даты бронирований хранятся в UTC
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed провайдер времени, всегда возвращающий одно и то же значение
type Fixed struct {
	At time.Time
}

// Now возвращает зафиксированное время
func (f Fixed) Now() time.Time {
	return f.At
}
