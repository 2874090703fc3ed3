package services

import (
	"encoding/json"
	"testing"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOrderNumberSameDay(t *testing.T) {
	counter := entity.OrderCounter{Count: 7, LastResetDate: "2024-05-01"}

	next, updated := NextOrderNumber(counter, "2024-05-01")

	assert.Equal(t, 8, next)
	assert.Equal(t, entity.OrderCounter{Count: 8, LastResetDate: "2024-05-01"}, updated)
}

func TestNextOrderNumberResetsOnNewDay(t *testing.T) {
	counter := entity.OrderCounter{Count: 7, LastResetDate: "2024-05-01"}

	next, updated := NextOrderNumber(counter, "2024-05-02")

	assert.Equal(t, 1, next)
	assert.Equal(t, entity.OrderCounter{Count: 1, LastResetDate: "2024-05-02"}, updated)
}

func TestNextOrderNumberFromZeroValue(t *testing.T) {
	next, updated := NextOrderNumber(entity.OrderCounter{}, "2024-05-02")

	assert.Equal(t, 1, next)
	assert.Equal(t, "2024-05-02", updated.LastResetDate)
}

func TestDecodeCounterStringDate(t *testing.T) {
	c, ok := DecodeCounter(json.RawMessage(`{"count":42,"lastResetDate":"2024-05-01"}`))

	require.True(t, ok)
	assert.Equal(t, 42, c.Count)
	assert.Equal(t, "2024-05-01", c.LastResetDate)
}

func TestDecodeCounterEpochMillisDate(t *testing.T) {
	// ข้อมูลรุ่นเก่าเก็บ lastResetDate เป็น millis
	c, ok := DecodeCounter(json.RawMessage(`{"count":5,"lastResetDate":1714521600000}`))

	require.True(t, ok)
	assert.Equal(t, 5, c.Count)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, c.LastResetDate)
}

func TestDecodeCounterGarbage(t *testing.T) {
	_, ok := DecodeCounter(json.RawMessage(`"not a counter"`))
	assert.False(t, ok)

	_, ok = DecodeCounter(json.RawMessage(`{"lastResetDate":"2024-05-01"}`))
	assert.False(t, ok, "counter ที่ไม่มี count ต้องถือว่าใช้ไม่ได้")
}
