// Package telemetry обеспечивает наблюдаемость турнира.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Все компоненты используют единый формат логирования,
// метрики экспортируются на /metrics endpoint в режиме loop.
package telemetry
