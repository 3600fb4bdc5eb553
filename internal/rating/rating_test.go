package rating

import (
	"math"
	"testing"
)

func TestRate_TwoEqualCompetitors(t *testing.T) {
	e := New(Config{})

	got := e.Rate([]float64{1200, 1200})

	// Равные рейтинги: ожидаемый счёт 0.5, победитель получает K/2.
	if math.Abs(got[0]-1205) > 1e-9 {
		t.Errorf("expected winner 1205, got %v", got[0])
	}
	if math.Abs(got[1]-1195) > 1e-9 {
		t.Errorf("expected loser 1195, got %v", got[1])
	}
}

func TestRate_SingleCompetitor(t *testing.T) {
	e := New(Config{})

	got := e.Rate([]float64{1337})

	if len(got) != 1 || got[0] != 1337 {
		t.Errorf("expected rating unchanged, got %v", got)
	}
}

func TestRate_Empty(t *testing.T) {
	e := New(Config{})

	if got := e.Rate(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

// Сумма смещений равна нулю: заезд перераспределяет рейтинг,
// но не создаёт его.
func TestRate_ZeroSum(t *testing.T) {
	e := New(Config{})

	ranking := []float64{1400, 1250, 1250, 1100, 980}
	got := e.Rate(ranking)

	var before, after float64
	for i := range ranking {
		before += ranking[i]
		after += got[i]
	}
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("expected zero-sum update, drift %v", after-before)
	}
}

// Аутсайдер, обыгравший фаворита, получает больше, чем фаворит
// получил бы за ту же победу.
func TestRate_UpsetPaysMore(t *testing.T) {
	e := New(Config{})

	upset := e.Rate([]float64{1100, 1400})
	expected := e.Rate([]float64{1400, 1100})

	upsetGain := upset[0] - 1100
	expectedGain := expected[0] - 1400

	if upsetGain <= expectedGain {
		t.Errorf("expected upset gain %v to exceed favourite gain %v", upsetGain, expectedGain)
	}
}

// Ожидаемые счёты берутся от рейтингов до заезда: результат для
// участника не зависит от того, в каком порядке обходятся пары.
func TestRate_UsesPreRaceSnapshot(t *testing.T) {
	e := New(Config{})

	ranking := []float64{1200, 1200, 1200}
	got := e.Rate(ranking)

	// Средний участник выигрывает у одного равного и проигрывает
	// другому равному: смещение строго ноль.
	if math.Abs(got[1]-1200) > 1e-9 {
		t.Errorf("expected middle competitor unchanged, got %v", got[1])
	}
	if got[0] <= 1200 || got[2] >= 1200 {
		t.Errorf("expected winner up and loser down, got %v", got)
	}
}

// Смещение — среднее попарных смещений: победа над двумя равными
// соперниками стоит столько же, сколько победа над одним.
func TestRate_AveragesPairwiseDeltas(t *testing.T) {
	e := New(Config{})

	two := e.Rate([]float64{1200, 1200})
	three := e.Rate([]float64{1200, 1200, 1200})

	winnerOfTwo := two[0] - 1200
	winnerOfThree := three[0] - 1200

	if math.Abs(winnerOfTwo-winnerOfThree) > 1e-9 {
		t.Errorf("expected equal winner gains, got %v and %v", winnerOfTwo, winnerOfThree)
	}
}

func TestExpected(t *testing.T) {
	e := New(Config{})

	if got := e.Expected(1200, 1200); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected 0.5 for equal ratings, got %v", got)
	}

	// Разница в 400 пунктов — ожидаемый счёт 10:1.
	if got := e.Expected(1600, 1200); math.Abs(got-10.0/11.0) > 1e-9 {
		t.Errorf("expected 10/11, got %v", got)
	}

	strong := e.Expected(1600, 1200)
	weak := e.Expected(1200, 1600)
	if math.Abs(strong+weak-1) > 1e-9 {
		t.Errorf("expected complementary scores, got %v and %v", strong, weak)
	}
}

func TestNew_Defaults(t *testing.T) {
	e := New(Config{})

	if e.Initial() != DefaultInitial {
		t.Errorf("expected %v, got %v", DefaultInitial, e.Initial())
	}
	if e.kFactor != DefaultKFactor {
		t.Errorf("expected %v, got %v", DefaultKFactor, e.kFactor)
	}
	if e.scale != DefaultScale {
		t.Errorf("expected %v, got %v", DefaultScale, e.scale)
	}
}
