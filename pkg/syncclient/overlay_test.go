package syncclient

import (
	"testing"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayShowsPendingOrderUntilConfirmed(t *testing.T) {
	o := NewOrderOverlay()
	now := fixedNow()
	o.now = func() time.Time { return now }

	pending := entity.ActiveOrder{ID: 1, CustomerName: "โต๊ะ 3"}
	o.Add(pending)

	// server ยังไม่เห็น → overlay เติมให้
	merged := o.Merge(nil)
	require.Len(t, merged, 1)
	assert.Equal(t, int64(1), merged[0].ID)

	// server confirm แล้ว → ใช้ของจริง ไม่ซ้ำสองใบ
	confirmed := []entity.ActiveOrder{{ID: 1, CustomerName: "โต๊ะ 3", OrderNumber: 5}}
	merged = o.Merge(confirmed)
	require.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].OrderNumber)

	// confirm แล้วก็หลุดจาก overlay ถาวร
	assert.Empty(t, o.Merge(nil))
}

func TestOverlayExpiresUnconfirmedOrders(t *testing.T) {
	o := NewOrderOverlay()
	now := fixedNow()
	o.now = func() time.Time { return now }

	o.Add(entity.ActiveOrder{ID: 1})
	require.Len(t, o.Merge(nil), 1)

	// เกิน TTL — ถือว่าส่งไม่สำเร็จ อย่าแขวนบิลผีไว้บนจอ
	now = now.Add(overlayTTL + time.Second)
	assert.Empty(t, o.Merge(nil))
}

func TestOverlayKeepsConfirmedListIntact(t *testing.T) {
	o := NewOrderOverlay()

	confirmed := []entity.ActiveOrder{{ID: 10}, {ID: 20}}
	merged := o.Merge(confirmed)

	assert.Equal(t, confirmed, merged)
}
