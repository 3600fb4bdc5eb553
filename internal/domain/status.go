package domain

// RaceStatus — фаза жизненного цикла заезда.
//
// Жизненный цикл:
//
//	IDLE → SLOTS_RESOLVED → LAUNCHING → SUPERVISING → AWAITING_COMPLETION
//	     → CLEANING_UP → HARVESTING → SCORING → DONE
//
// Сбой на фазах LAUNCHING, SUPERVISING или AWAITING_COMPLETION переводит
// заезд в FAILING, после чего остановка процессов и сбор серверных логов
// выполняются всё равно:
//
//	FAILING → CLEANING_UP → HARVESTING → FAILED
type RaceStatus string

const (
	// RaceStatusIdle — заезд создан, подготовка не начиналась.
	RaceStatusIdle RaceStatus = "IDLE"

	// RaceStatusSlotsResolved — слоты прочитаны из конфигурации симулятора,
	// участники назначены на слоты.
	RaceStatusSlotsResolved RaceStatus = "SLOTS_RESOLVED"

	// RaceStatusLaunching — запускаются симулятор и процессы участников.
	RaceStatusLaunching RaceStatus = "LAUNCHING"

	// RaceStatusSupervising — все процессы живы, ожидается выход симулятора.
	RaceStatusSupervising RaceStatus = "SUPERVISING"

	// RaceStatusAwaitingCompletion — симулятор завершился, проверяется
	// что заезд длился не меньше минимума.
	RaceStatusAwaitingCompletion RaceStatus = "AWAITING_COMPLETION"

	// RaceStatusFailing — зафиксирован сбой, заезд идёт к остановке процессов.
	RaceStatusFailing RaceStatus = "FAILING"

	// RaceStatusCleaningUp — эскалирующая остановка всех процессов заезда.
	// Выполняется перед DONE и перед распространением любой ошибки.
	RaceStatusCleaningUp RaceStatus = "CLEANING_UP"

	// RaceStatusHarvesting — сбор логов сервера и протокола результатов.
	RaceStatusHarvesting RaceStatus = "HARVESTING"

	// RaceStatusScoring — пересчёт рейтингов по финишному порядку.
	RaceStatusScoring RaceStatus = "SCORING"

	// RaceStatusDone — заезд успешно завершён.
	RaceStatusDone RaceStatus = "DONE"

	// RaceStatusFailed — заезд завершился с ошибкой.
	RaceStatusFailed RaceStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (заезд завершён).
func (s RaceStatus) IsTerminal() bool {
	switch s {
	case RaceStatusDone, RaceStatusFailed:
		return true
	default:
		return false
	}
}
