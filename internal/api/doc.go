// Package api содержит read-only HTTP поверхность worker'а.
//
// Структура:
//   - handler.go    — Handler (состояние процесса, logger)
//   - routes.go     — регистрация маршрутов
//   - middleware.go — middleware (logging, metrics, recovery)
//   - response.go   — унифицированные JSON-ответы
//
// Endpoints: /healthz, /metrics, GET /api/v1/status.
package api
