package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bundle is a named group of services booked as one reservation
type Bundle struct {
	ID                   int64
	BusinessID           int64
	Name                 string
	Description          *string
	TotalDurationMinutes int
	TotalPrice           decimal.Decimal
	IsActive             bool
	ValidFrom            *time.Time
	ValidUntil           *time.Time
	MaxRedemptions       *int
	CurrentRedemptions   int
	Items                []BundleItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// BundleItem is one component service of a bundle
type BundleItem struct {
	ID              int64
	BundleID        int64
	ServiceID       int64
	ServiceName     string
	DurationMinutes int
	Position        int
}

// DurationMinutes returns the sum of component durations,
// falling back to the stored total when items are not loaded
func (b *Bundle) DurationMinutes() int {
	sum := 0
	for _, item := range b.Items {
		sum += item.DurationMinutes
	}
	if sum > 0 {
		return sum
	}
	return b.TotalDurationMinutes
}

// IsWithinValidity returns true if now lies in [ValidFrom, ValidUntil]
func (b *Bundle) IsWithinValidity(now time.Time) bool {
	if b.ValidFrom != nil && now.Before(*b.ValidFrom) {
		return false
	}
	if b.ValidUntil != nil && now.After(*b.ValidUntil) {
		return false
	}
	return true
}

// IsCapped returns true if the bundle has a redemption limit
func (b *Bundle) IsCapped() bool {
	return b.MaxRedemptions != nil
}

// HasCapacity returns true if one more redemption fits under the cap
func (b *Bundle) HasCapacity() bool {
	return !b.IsCapped() || b.CurrentRedemptions < *b.MaxRedemptions
}

// BundleServiceStatus is the per-service progress inside a booked bundle
type BundleServiceStatus string

const (
	BundleServicePending    BundleServiceStatus = "pending"
	BundleServiceInProgress BundleServiceStatus = "in_progress"
	BundleServiceCompleted  BundleServiceStatus = "completed"
	BundleServiceCancelled  BundleServiceStatus = "cancelled"
)

// BundleServiceRecord tracks one component service of a bundle reservation
type BundleServiceRecord struct {
	ID            int64
	ReservationID int64
	BundleID      int64
	ServiceID     int64
	ServiceName   string
	Status        BundleServiceStatus
	CompletedAt   *time.Time
	CreatedAt     time.Time
}
