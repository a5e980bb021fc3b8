package businessdirectory

// Business модель бизнеса из справочника: владелец и сотрудники
type Business struct {
	ID       int64   `json:"id"`
	OwnerID  int64   `json:"owner_id"`
	StaffIDs []int64 `json:"staff_ids"`
}

// IsMember проверяет, что пользователь владелец или сотрудник бизнеса
func (b *Business) IsMember(userID int64) bool {
	if b.OwnerID == userID {
		return true
	}
	for _, id := range b.StaffIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
