package domain

import "fmt"

// CountMismatchError — количество участников не совпадает
// с количеством слотов в конфигурации симулятора.
type CountMismatchError struct {
	Slots       int
	Competitors int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("assignment requires exactly %d competitors, got %d", e.Slots, e.Competitors)
}
