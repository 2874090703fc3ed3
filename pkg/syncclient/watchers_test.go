package syncclient

import (
	"testing"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time {
	return time.UnixMilli(1_714_550_000_000)
}

func staffCall(id int64, age time.Duration) entity.StaffCall {
	ts := fixedNow().Add(-age).UnixMilli()
	return entity.StaffCall{ID: id, TableID: 1, Timestamp: ts}
}

func TestStaffCallWatcherNotifiesFreshCallsOnce(t *testing.T) {
	w := NewStaffCallWatcher()
	w.now = fixedNow

	calls := []entity.StaffCall{staffCall(1, time.Minute)}
	assert.Len(t, w.Observe(calls), 1)

	// snapshot เดิมมาซ้ำ (เช่นมี event อื่นใน list) ต้องไม่เตือนซ้ำ
	assert.Empty(t, w.Observe(calls))

	calls = append(calls, staffCall(2, time.Second))
	fresh := w.Observe(calls)
	assert.Len(t, fresh, 1)
	assert.Equal(t, int64(2), fresh[0].ID)
}

func TestStaffCallWatcherSkipsStaleBacklog(t *testing.T) {
	w := NewStaffCallWatcher()
	w.now = fixedNow

	// event ค้างจากเมื่อคืน — ห้ามเด้ง แต่ cursor ต้องเลื่อนผ่าน
	backlog := []entity.StaffCall{staffCall(1, 10*time.Hour), staffCall(2, 8*time.Hour)}
	assert.Empty(t, w.Observe(backlog))

	// event เก่าโผล่ซ้ำในรอบถัดไปก็ยังเงียบ
	assert.Empty(t, w.Observe(backlog))

	fresh := w.Observe(append(backlog, staffCall(3, time.Minute)))
	assert.Len(t, fresh, 1)
	assert.Equal(t, int64(3), fresh[0].ID)
}

func activeOrder(id int64, age time.Duration) entity.ActiveOrder {
	return entity.ActiveOrder{ID: id, OrderTime: fixedNow().Add(-age).UnixMilli()}
}

func TestOrderWatcherSeedsSilentlyOnFirstSnapshot(t *testing.T) {
	w := NewOrderWatcher()
	w.now = fixedNow

	// เปิดเครื่องมาเจอบิลค้าง 2 ใบ — ไม่ใช่บิลใหม่ อย่าเตือน
	existing := []entity.ActiveOrder{activeOrder(1, time.Minute), activeOrder(2, time.Minute)}
	assert.Empty(t, w.Observe(existing))

	fresh := w.Observe(append(existing, activeOrder(3, time.Second)))
	assert.Len(t, fresh, 1)
	assert.Equal(t, int64(3), fresh[0].ID)
}

func TestOrderWatcherIgnoresRemovals(t *testing.T) {
	w := NewOrderWatcher()
	w.now = fixedNow

	w.Observe([]entity.ActiveOrder{activeOrder(1, time.Minute), activeOrder(2, time.Minute)})

	// บิลหาย (ปิดไปแล้ว) ไม่ใช่เหตุให้เตือน
	assert.Empty(t, w.Observe([]entity.ActiveOrder{activeOrder(1, time.Minute)}))
}

func TestOrderWatcherSkipsOldOrdersOutsideWindow(t *testing.T) {
	w := NewOrderWatcher()
	w.now = fixedNow

	w.Observe(nil)

	// บิลที่เพิ่งโผล่ใน snapshot แต่สั่งไว้นานแล้ว (เช่น restore ข้อมูล)
	assert.Empty(t, w.Observe([]entity.ActiveOrder{activeOrder(9, time.Hour)}))
}
