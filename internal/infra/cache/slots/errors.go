package slots

import "errors"

var (
	// ErrCache возвращается при ошибке обращения к Redis
	ErrCache = errors.New("slots.cache: redis error")

	// ErrDecode возвращается при поврежденном значении в кэше
	ErrDecode = errors.New("slots.cache: failed to decode cached slots")
)
