package torcs

import (
	"fmt"

	"github.com/shaiso/Paddock/internal/domain"
)

// ReadSlots извлекает слоты гонщиков из конфигурации заезда.
//
// Конфигурация обязана содержать секцию Drivers, каждая дочерняя
// секция которой описывает один слот: attnum idx (индекс слота)
// и attstr module (семейство модуля гонщика). Слот с чужим модулем
// или без обязательных атрибутов — ошибка конфигурации.
//
// Порт слота вычисляется как basePort + idx. Слоты возвращаются
// в порядке документа.
func ReadSlots(data []byte, module string, basePort int) ([]domain.Slot, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, NewParseError("", err.Error(), ErrMalformedConfig)
	}

	drivers := doc.find("Drivers")
	if drivers == nil {
		return nil, NewParseError("Drivers", "section not found", ErrMalformedConfig)
	}

	if len(drivers.Sections) == 0 {
		return nil, NewParseError("Drivers", "no driver slots defined", ErrMalformedConfig)
	}

	slots := make([]domain.Slot, 0, len(drivers.Sections))
	seen := make(map[int]bool, len(drivers.Sections))

	for i := range drivers.Sections {
		drv := &drivers.Sections[i]

		mod, ok := drv.attstr("module")
		if !ok {
			return nil, NewParseError(drv.Name, "driver has no module attribute", ErrMalformedConfig)
		}
		if mod != module {
			return nil, NewParseError(drv.Name,
				fmt.Sprintf("unexpected driver module %q, want %q", mod, module), ErrMalformedConfig)
		}

		idx, ok := drv.attnum("idx")
		if !ok {
			return nil, NewParseError(drv.Name, "driver has no idx attribute", ErrMalformedConfig)
		}
		if seen[idx] {
			return nil, NewParseError(drv.Name,
				fmt.Sprintf("duplicate driver idx %d", idx), ErrMalformedConfig)
		}
		seen[idx] = true

		slots = append(slots, domain.Slot{
			Index:  idx,
			Port:   basePort + idx,
			Module: mod,
		})
	}

	return slots, nil
}
