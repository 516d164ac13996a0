package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salonkit/booking-service/pkg/types"
)

func newEvaluator() Evaluator {
	return Evaluator{
		Open:        "07:00",
		Close:       "21:00",
		StepMinutes: 30,
	}
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestAvailable_ContiguousSpanBlockedByOccupiedSlot(t *testing.T) {
	// Рабочие часы 07:00-21:00, шаг 30 минут, услуга на 2 слота (60 минут),
	// занят только слот 10:00
	e := newEvaluator()
	occupied := map[string]struct{}{"10:00:00": {}}

	selected := date(2026, 3, 20, 0, 0)
	now := date(2026, 3, 19, 12, 0) // запрос на завтра

	// 09:30 проверяет 09:30 и 10:00 - 10:00 занят
	assert.False(t, e.Available("09:30", 2, occupied, selected, now, 0))

	// 09:00 проверяет 09:00 и 09:30 - оба свободны
	assert.True(t, e.Available("09:00", 2, occupied, selected, now, 0))

	// 10:30 проверяет 10:30 и 11:00 - оба свободны
	assert.True(t, e.Available("10:30", 2, occupied, selected, now, 0))
}

func TestAvailable_SpanCrossingClosingTimeRejected(t *testing.T) {
	e := newEvaluator()
	empty := map[string]struct{}{}

	selected := date(2026, 3, 20, 0, 0)
	now := date(2026, 3, 19, 12, 0)

	// 20:30 + 1 слот заканчивается ровно в 21:00 - допустимо
	assert.True(t, e.Available("20:30", 1, empty, selected, now, 0))

	// 20:30 + 2 слота перехлестывает время закрытия независимо от занятости
	assert.False(t, e.Available("20:30", 2, empty, selected, now, 0))

	// 20:00 + 3 слота - тоже перехлест (последний слот 21:00 вне сетки)
	assert.False(t, e.Available("20:00", 3, empty, selected, now, 0))
}

func TestAvailable_PastCutoffForToday(t *testing.T) {
	e := newEvaluator()
	empty := map[string]struct{}{}

	now := date(2026, 3, 20, 14, 0)
	today := date(2026, 3, 20, 0, 0)

	// Слот раньше текущего времени недоступен
	assert.False(t, e.Available("13:30", 1, empty, today, now, 0))

	// Слот позже текущего времени доступен
	assert.True(t, e.Available("14:30", 1, empty, today, now, 0))

	// Слот ровно в текущее время не считается прошедшим
	assert.True(t, e.Available("14:00", 1, empty, today, now, 0))

	// Для другой даты проверка текущего времени не применяется
	tomorrow := date(2026, 3, 21, 0, 0)
	assert.True(t, e.Available("07:00", 1, empty, tomorrow, now, 0))
}

func TestAvailable_MinNoticeAppliesToToday(t *testing.T) {
	e := newEvaluator()
	empty := map[string]struct{}{}

	now := date(2026, 3, 20, 14, 0)
	today := date(2026, 3, 20, 0, 0)

	// Минимальное время до записи 60 минут: 14:30 уже недоступен
	assert.False(t, e.Available("14:30", 1, empty, today, now, 60))
	assert.True(t, e.Available("15:00", 1, empty, today, now, 60))
}

func TestAvailable_OutOfHoursAndOffGrid(t *testing.T) {
	e := newEvaluator()
	empty := map[string]struct{}{}

	selected := date(2026, 3, 20, 0, 0)
	now := date(2026, 3, 19, 12, 0)

	// До открытия и после закрытия
	assert.False(t, e.Available("06:30", 1, empty, selected, now, 0))
	assert.False(t, e.Available("21:00", 1, empty, selected, now, 0))

	// Дробное смещение вне сетки
	assert.False(t, e.Available("09:15", 1, empty, selected, now, 0))
}

func TestAvailable_RequiredSlotsFlooredToOne(t *testing.T) {
	e := newEvaluator()
	empty := map[string]struct{}{}

	selected := date(2026, 3, 20, 0, 0)
	now := date(2026, 3, 19, 12, 0)

	assert.True(t, e.Available("10:00", 0, empty, selected, now, 0))
}

func TestAvailable_LongSpanOverlapsMidOccupancy(t *testing.T) {
	// Услуга на 3 слота (90 минут): занятость в середине диапазона блокирует кандидата
	e := newEvaluator()
	occupied := map[string]struct{}{"11:00:00": {}}

	selected := date(2026, 3, 20, 0, 0)
	now := date(2026, 3, 19, 12, 0)

	assert.False(t, e.Available("10:00", 3, occupied, selected, now, 0))
	assert.False(t, e.Available("10:30", 3, occupied, selected, now, 0))
	assert.False(t, e.Available("11:00", 3, occupied, selected, now, 0))
	assert.True(t, e.Available("11:30", 3, occupied, selected, now, 0))
	assert.True(t, e.Available("08:30", 3, occupied, selected, now, 0))
}

func TestAvailable_NonAlignedOpeningAnchorsGrid(t *testing.T) {
	// Сетка привязана к открытию: при открытии в 09:30 слот 10:00 вне сетки
	e := Evaluator{Open: "09:30", Close: "18:00", StepMinutes: 60}
	empty := map[string]struct{}{}

	selected := date(2026, 3, 20, 0, 0)
	now := date(2026, 3, 19, 12, 0)

	assert.True(t, e.Available("09:30", 1, empty, selected, now, 0))
	assert.True(t, e.Available("10:30", 1, empty, selected, now, 0))
	assert.False(t, e.Available("10:00", 1, empty, selected, now, 0))
}

func TestAvailable_TimeStringHelpers(t *testing.T) {
	// Граничный случай: запись, заканчивающаяся ровно в начале слота,
	// не пересекается с ним (полуоткрытые интервалы)
	start := types.TimeString("11:00")
	end, err := start.AddMinutes(30)
	assert.NoError(t, err)
	assert.Equal(t, types.TimeString("11:30"), end)
	assert.False(t, end.IsBefore("11:30"))
}
