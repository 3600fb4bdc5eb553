// Package api содержит HTTP сервер наблюдения за турниром.
//
// Структура:
//   - handler.go        — Handler с DI и регистрация маршрутов
//   - middleware.go     — middleware (logging, recovery)
//   - response.go       — унифицированные JSON-ответы
//   - status_handler.go — /healthz и /status
//
// Сервер наблюдения read-only: /healthz для supervision, /metrics
// для Prometheus, /status с турнирной таблицей и последним заездом.
// Управления заездами по HTTP нет намеренно: единственный владелец
// жизненного цикла заезда — цикл контроллера.
package api
