package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductUsage is the amount of one inventory product consumed by a service
type ProductUsage struct {
	ProductID int64
	Quantity  int
}

// ServiceHistoryRecord is the vehicle service log entry written on completion
type ServiceHistoryRecord struct {
	ID                int64
	ReservationID     int64
	CustomerID        int64
	VehicleID         int64
	BusinessID        *int64
	StaffID           *int64
	ServiceDescriptor string
	ServiceDate       time.Time
	Price             *decimal.Decimal
	Notes             string
	CreatedAt         time.Time
}

// InventoryUsage is one inventory decrement entry
type InventoryUsage struct {
	ID               int64
	ProductID        int64
	ReservationID    int64
	HistoryRecordID  *int64
	Quantity         int
	RemainingInStock int
	CreatedAt        time.Time
}
