package rating

import "math"

// Параметры рейтинга по умолчанию.
const (
	// DefaultInitial — рейтинг нового участника.
	DefaultInitial = 1200.0

	// DefaultKFactor — максимальное смещение рейтинга за одну пару.
	DefaultKFactor = 10.0

	// DefaultScale — масштаб логистической кривой ожидаемого счёта.
	DefaultScale = 400.0
)

// Config — параметры движка рейтингов.
type Config struct {
	// Initial — рейтинг, с которого стартует новый участник.
	Initial float64

	// KFactor — коэффициент K классической схемы Эло.
	KFactor float64

	// Scale — знаменатель показателя в формуле ожидаемого счёта.
	Scale float64
}

// Engine пересчитывает рейтинги Эло по финишному порядку заезда.
//
// Заезд с N участниками рассматривается как N*(N-1)/2 очных пар:
// каждый участник «выиграл» у всех, кто финишировал позже. Смещение
// рейтинга участника — среднее попарных смещений, а не сумма, иначе
// цена одного заезда росла бы с размером стартовой решётки.
type Engine struct {
	initial float64
	kFactor float64
	scale   float64
}

// New создаёт движок рейтингов. Нулевые поля Config
// заменяются значениями по умолчанию.
func New(cfg Config) *Engine {
	if cfg.Initial == 0 {
		cfg.Initial = DefaultInitial
	}
	if cfg.KFactor == 0 {
		cfg.KFactor = DefaultKFactor
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	return &Engine{
		initial: cfg.Initial,
		kFactor: cfg.KFactor,
		scale:   cfg.Scale,
	}
}

// Initial возвращает рейтинг нового участника.
func (e *Engine) Initial() float64 {
	return e.initial
}

// Expected возвращает ожидаемый счёт участника с рейтингом own
// против участника с рейтингом opp: число из (0, 1).
func (e *Engine) Expected(own, opp float64) float64 {
	return 1 / (1 + math.Pow(10, (opp-own)/e.scale))
}

// Rate пересчитывает рейтинги по финишному порядку.
//
// ranking — рейтинги участников до заезда, упорядоченные по месту
// на финише (первый элемент — победитель). Возвращаются новые
// рейтинги в том же порядке.
//
// Все ожидаемые счёты вычисляются от снимка рейтингов до заезда,
// смещения применяются разом: порядок участников в паре не влияет
// на результат, сумма смещений равна нулю.
func (e *Engine) Rate(ranking []float64) []float64 {
	n := len(ranking)
	if n == 0 {
		return nil
	}

	out := make([]float64, n)
	copy(out, ranking)
	if n == 1 {
		// Одиночный заезд не даёт информации о силе участника.
		return out
	}

	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}

			// Участник i финишировал раньше j — победа i.
			score := 0.0
			if i < j {
				score = 1.0
			}
			sum += score - e.Expected(ranking[i], ranking[j])
		}
		out[i] += e.kFactor * sum / float64(n-1)
	}

	return out
}
