package availability

import "errors"

var (
	// ErrCache возвращается при ошибке обращения к Redis
	ErrCache = errors.New("availability.cache: redis error")

	// ErrDecode возвращается, когда закешированное значение не удалось разобрать
	ErrDecode = errors.New("availability.cache: failed to decode entry")
)
