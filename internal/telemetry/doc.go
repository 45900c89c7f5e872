// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Worker пишет логи в едином формате и экспортирует метрики
// на /metrics endpoint.
package telemetry
