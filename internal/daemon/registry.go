package daemon

import (
	"os"
	"strings"
	"sync"
)

// Registry — реестр endpoint'ов daemon-сервисов.
//
// Отображает имя сервиса ("gmail", "browser") в базовый URL
// ("http://localhost:7701"). Потокобезопасен.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]string
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[string]string)}
}

// RegistryFromEnv создаёт реестр из переменной окружения SERVICES.
//
// Формат: "gmail=http://localhost:7701,browser=http://localhost:7702".
// Некорректные записи молча пропускаются.
func RegistryFromEnv() *Registry {
	r := NewRegistry()

	raw := os.Getenv("SERVICES")
	if raw == "" {
		return r
	}

	for _, entry := range strings.Split(raw, ",") {
		name, endpoint, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || name == "" || endpoint == "" {
			continue
		}
		r.Register(name, endpoint)
	}

	return r
}

// Register добавляет или перезаписывает endpoint сервиса.
func (r *Registry) Register(service, endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[service] = strings.TrimRight(endpoint, "/")
}

// Endpoint возвращает endpoint сервиса.
func (r *Registry) Endpoint(service string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	endpoint, ok := r.endpoints[service]
	return endpoint, ok
}

// Services возвращает имена всех зарегистрированных сервисов.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	return names
}
