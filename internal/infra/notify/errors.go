package notify

import "errors"

var (
	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notify: failed to publish event")

	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("notify: failed to connect to broker")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("notify: failed to encode event")
)
