package daemon

import "errors"

// Ошибки клиента daemon-сервисов.
var (
	// ErrUnknownService — сервис не зарегистрирован в registry.
	ErrUnknownService = errors.New("unknown service")

	// ErrCallFailed — вызов не удалось выполнить (транспортный уровень).
	ErrCallFailed = errors.New("daemon call failed")
)
