// Package hooks выполняет действия вокруг заезда.
//
// Хук — пара команд: перед запуском процессов и после их остановки.
// Ошибка пред-хука отменяет заезд; пост-хуки выполняются всегда,
// в том числе после сорвавшегося заезда, и их ошибки не эскалируются.
//
// Структура:
//   - hook.go     — интерфейс Hook и прогон цепочки хуков
//   - registry.go — реестр типов хуков, построение из конфигурации
//   - sync.go     — пауза демона синхронизации файлов на время заезда
//   - exec.go     — произвольные команды до и после заезда
//   - command.go  — выполнение команды хука с ограничением времени
package hooks
