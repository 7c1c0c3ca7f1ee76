// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики движка
//
// Все бинарники используют единый формат логирования;
// метрики экспортируются на /metrics endpoint в sequent-api.
package telemetry
