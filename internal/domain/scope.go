package domain

// ScopeKind is the dimension a conflict is checked against
type ScopeKind string

const (
	ScopeStaff    ScopeKind = "staff"
	ScopeBusiness ScopeKind = "business"
)

// ConflictScope identifies the resource a reservation occupies.
// A staff scope also covers staff-less reservations of the same business,
// since those occupy the business as a whole.
type ConflictScope struct {
	Kind       ScopeKind
	StaffID    *int64
	BusinessID *int64
}

// ScopeOf returns the scope a reservation occupies and false if it has none
func ScopeOf(staffID, businessID *int64) (ConflictScope, bool) {
	switch {
	case staffID != nil:
		return ConflictScope{Kind: ScopeStaff, StaffID: staffID, BusinessID: businessID}, true
	case businessID != nil:
		return ConflictScope{Kind: ScopeBusiness, BusinessID: businessID}, true
	default:
		return ConflictScope{}, false
	}
}

// Covers reports whether r competes for the same resource as the scope
func (s ConflictScope) Covers(r *Reservation) bool {
	switch s.Kind {
	case ScopeStaff:
		if s.StaffID != nil && r.StaffID != nil && *r.StaffID == *s.StaffID {
			return true
		}
		return s.BusinessID != nil && r.StaffID == nil && r.BusinessID != nil && *r.BusinessID == *s.BusinessID
	case ScopeBusiness:
		return s.BusinessID != nil && r.BusinessID != nil && *r.BusinessID == *s.BusinessID
	}
	return false
}
