package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
)

func TestExpand_MultiBlockRecord(t *testing.T) {
	records := []domain.OccupancyRecord{
		{SlotTime: "10:00:00", Blocks: 3},
	}

	counts := Expand(records, 30)

	require.Len(t, counts, 3)
	assert.Equal(t, 1, counts["10:00:00"])
	assert.Equal(t, 1, counts["10:30:00"])
	assert.Equal(t, 1, counts["11:00:00"])
}

func TestExpand_OverlappingRecordsAccumulate(t *testing.T) {
	records := []domain.OccupancyRecord{
		{SlotTime: "10:00:00", Blocks: 2},
		{SlotTime: "10:30:00", Blocks: 2},
	}

	counts := Expand(records, 30)

	assert.Equal(t, 1, counts["10:00:00"])
	assert.Equal(t, 2, counts["10:30:00"])
	assert.Equal(t, 1, counts["11:00:00"])
	// Мощность множества слотов не больше суммы блоков
	assert.LessOrEqual(t, len(counts), 4)
}

func TestExpand_BlocksFlooredToOne(t *testing.T) {
	// Нулевое или отрицательное количество блоков трактуется как 1:
	// стартовый слот записи всегда занят
	records := []domain.OccupancyRecord{
		{SlotTime: "09:00:00", Blocks: 0},
		{SlotTime: "12:00:00", Blocks: -5},
	}

	counts := Expand(records, 30)

	require.Len(t, counts, 2)
	assert.Equal(t, 1, counts["09:00:00"])
	assert.Equal(t, 1, counts["12:00:00"])
}

func TestExpand_Idempotent(t *testing.T) {
	records := []domain.OccupancyRecord{
		{SlotTime: "10:00:00", Blocks: 2},
		{SlotTime: "14:30:00", Blocks: 1},
	}

	first := Expand(records, 30)
	second := Expand(records, 30)
	assert.Equal(t, first, second)
}

func TestExpand_TruncatesAtEndOfDay(t *testing.T) {
	records := []domain.OccupancyRecord{
		{SlotTime: "23:30:00", Blocks: 5},
	}

	counts := Expand(records, 30)
	assert.Equal(t, map[string]int{"23:30:00": 1}, counts)
}

func TestExpand_SkipsMalformedRecords(t *testing.T) {
	records := []domain.OccupancyRecord{
		{SlotTime: "garbage", Blocks: 2},
		{SlotTime: "10:00:00", Blocks: 1},
	}

	counts := Expand(records, 30)
	assert.Equal(t, map[string]int{"10:00:00": 1}, counts)
}

func TestOccupiedSet_Capacity(t *testing.T) {
	counts := map[string]int{
		"10:00:00": 2,
		"10:30:00": 1,
		"11:00:00": 3,
	}

	occupied := OccupiedSet(counts, 2)

	assert.Contains(t, occupied, "10:00:00")
	assert.NotContains(t, occupied, "10:30:00")
	assert.Contains(t, occupied, "11:00:00")
}

func TestOccupiedSet_CapacityFlooredToOne(t *testing.T) {
	counts := map[string]int{"10:00:00": 1}

	occupied := OccupiedSet(counts, 0)
	assert.Contains(t, occupied, "10:00:00")
}
