package events

import "errors"

var (
	// ErrPublish возвращается, когда событие не удалось отправить в Kafka
	ErrPublish = errors.New("events: failed to publish event")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("events: failed to encode event")
)
