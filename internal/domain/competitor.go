package domain

import "strconv"

// Competitor — участник турнира: внешняя программа-гонщик,
// которая подключается к симулятору по выделенному порту.
//
// Competitor создаётся из конфигурации турнира. Rating изменяется
// только контроллером после подсчёта результатов заезда.
type Competitor struct {
	// Token — уникальный идентификатор участника в турнире.
	// Используется в файле рейтингов и в очереди.
	Token string `json:"token"`

	// Rating — текущий рейтинг Эло.
	Rating float64 `json:"rating"`

	// Dir — рабочая директория участника. В ней запускается его
	// процесс, хранится маркер очереди и копии результатов.
	Dir string `json:"-"`

	// Command — шаблон команды запуска с плейсхолдером {port}.
	// Каждый участник владеет собственной копией шаблона.
	Command []string `json:"-"`

	// User — имя пользователя ОС для запуска процесса.
	// Пустая строка — процесс запускается от текущего пользователя.
	User string `json:"-"`

	// StdoutName и StderrName — имена файлов вывода процесса
	// в рабочей директории. Поддерживают {token} и {race}.
	StdoutName string `json:"-"`
	StderrName string `json:"-"`

	// ResultsName — имя файла, под которым в рабочую директорию
	// копируется итоговый протокол заезда.
	ResultsName string `json:"-"`
}

// Slot — слот гонщика в конфигурации симулятора.
//
// Симулятор нумерует слоты атрибутом idx, каждому слоту соответствует
// порт idx-го участника и отображаемое имя в протоколе результатов.
type Slot struct {
	// Index — индекс слота из атрибута idx (с нуля).
	Index int `json:"index"`

	// Port — порт, который слушает симулятор для этого слота.
	Port int `json:"port"`

	// Module — семейство модуля гонщика, например "scr_server".
	Module string `json:"module"`
}

// Name возвращает отображаемое имя слота в протоколе результатов.
// Симулятор нумерует их с единицы: "scr_server 1", "scr_server 2", ...
func (s Slot) Name() string {
	return s.Module + " " + strconv.Itoa(s.Index+1)
}

// Seat — связка слота с назначенным на него участником.
type Seat struct {
	Slot       Slot        `json:"slot"`
	Competitor *Competitor `json:"competitor"`
}

// Assignment — упорядоченное назначение участников на слоты заезда.
//
// Назначение биективно: каждый слот занят ровно одним участником.
// Порядок мест повторяет порядок слотов в конфигурации симулятора.
type Assignment struct {
	seats  []Seat
	byName map[string]*Competitor
}

// NewAssignment назначает участников на слоты по порядку.
// Количество участников обязано совпадать с количеством слотов.
func NewAssignment(slots []Slot, competitors []*Competitor) (*Assignment, error) {
	if len(slots) != len(competitors) {
		return nil, &CountMismatchError{Slots: len(slots), Competitors: len(competitors)}
	}

	a := &Assignment{
		seats:  make([]Seat, 0, len(slots)),
		byName: make(map[string]*Competitor, len(slots)),
	}
	for i, slot := range slots {
		a.seats = append(a.seats, Seat{Slot: slot, Competitor: competitors[i]})
		a.byName[slot.Name()] = competitors[i]
	}
	return a, nil
}

// Seats возвращает места заезда в порядке слотов.
func (a *Assignment) Seats() []Seat {
	return a.seats
}

// Len возвращает количество мест.
func (a *Assignment) Len() int {
	return len(a.seats)
}

// ByName находит участника по отображаемому имени слота
// из протокола результатов.
func (a *Assignment) ByName(name string) (*Competitor, bool) {
	c, ok := a.byName[name]
	return c, ok
}

// Competitors возвращает участников в порядке слотов.
func (a *Assignment) Competitors() []*Competitor {
	out := make([]*Competitor, len(a.seats))
	for i, seat := range a.seats {
		out[i] = seat.Competitor
	}
	return out
}
