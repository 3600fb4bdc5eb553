package torcs

import (
	"fmt"
	"sort"
	"strconv"
)

// Finisher — одна строка финишного порядка заезда.
type Finisher struct {
	// Rank — место на финише (с единицы).
	Rank int

	// Name — отображаемое имя слота, например "scr_server 2".
	Name string
}

// ReadFinishingOrder извлекает финишный порядок из протокола результатов.
//
// Протокол обязан содержать секцию Results с вложенной секцией Rank.
// Каждая дочерняя секция Rank описывает одного финишёра: место берётся
// из имени секции, имя гонщика — из attstr name. Нечисловое или
// повторяющееся место — ошибка протокола.
//
// Финишёры возвращаются отсортированными по возрастанию места.
func ReadFinishingOrder(data []byte) ([]Finisher, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, NewParseError("", err.Error(), ErrMalformedResults)
	}

	results := doc.find("Results")
	if results == nil {
		return nil, NewParseError("Results", "section not found", ErrMalformedResults)
	}

	rank := results.find("Rank")
	if rank == nil {
		return nil, NewParseError("Rank", "section not found", ErrMalformedResults)
	}

	if len(rank.Sections) == 0 {
		return nil, NewParseError("Rank", "no finishers recorded", ErrMalformedResults)
	}

	order := make([]Finisher, 0, len(rank.Sections))
	seen := make(map[int]bool, len(rank.Sections))

	for i := range rank.Sections {
		entry := &rank.Sections[i]

		place, err := strconv.Atoi(entry.Name)
		if err != nil {
			return nil, NewParseError(entry.Name, "rank is not a number", ErrMalformedResults)
		}
		if seen[place] {
			return nil, NewParseError(entry.Name,
				fmt.Sprintf("duplicate rank %d", place), ErrMalformedResults)
		}
		seen[place] = true

		name, ok := entry.attstr("name")
		if !ok {
			return nil, NewParseError(entry.Name, "finisher has no name attribute", ErrMalformedResults)
		}

		order = append(order, Finisher{Rank: place, Name: name})
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Rank < order[j].Rank })

	return order, nil
}
