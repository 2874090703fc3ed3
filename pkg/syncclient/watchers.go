package syncclient

import (
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
)

// เสียงเตือนสนใจเฉพาะ event สด ๆ — backlog ค้างคืนไม่ต้องดังรัว
const notifyWindow = 5 * time.Minute

// StaffCallWatcher ตัดสินว่า staff call ไหน "ใหม่จริง" ควรเด้งเตือน
// cursor เลื่อนผ่านทุก event เสมอ — event เก่าเกิน window ถูกข้าม
// เงียบ ๆ ไม่ใช่ค้างไว้ให้เด้งซ้ำรอบหน้า
type StaffCallWatcher struct {
	lastSeenID int64
	now        func() time.Time
}

func NewStaffCallWatcher() *StaffCallWatcher {
	return &StaffCallWatcher{now: time.Now}
}

// Observe รับ list ทั้งก้อนจาก snapshot แล้วคืนเฉพาะ event ที่ควรเตือน
func (w *StaffCallWatcher) Observe(calls []entity.StaffCall) []entity.StaffCall {
	cutoff := w.now().UnixMilli() - notifyWindow.Milliseconds()

	var fresh []entity.StaffCall
	maxID := w.lastSeenID
	for _, c := range calls {
		if c.ID <= w.lastSeenID {
			continue
		}
		if c.ID > maxID {
			maxID = c.ID
		}
		if c.Timestamp >= cutoff {
			fresh = append(fresh, c)
		}
	}
	w.lastSeenID = maxID
	return fresh
}

// OrderWatcher เด้งเตือนครัวเมื่อมีบิลใหม่เข้า
// snapshot แรกหลังเปิดเครื่องคือของเดิมทั้งหมด — seed เงียบ ๆ ไม่เตือน
type OrderWatcher struct {
	seeded bool
	known  map[int64]bool
	now    func() time.Time
}

func NewOrderWatcher() *OrderWatcher {
	return &OrderWatcher{known: make(map[int64]bool)}
}

func (w *OrderWatcher) Observe(orders []entity.ActiveOrder) []entity.ActiveOrder {
	current := make(map[int64]bool, len(orders))
	for _, o := range orders {
		current[o.ID] = true
	}

	if !w.seeded {
		w.seeded = true
		w.known = current
		return nil
	}

	nowFn := w.now
	if nowFn == nil {
		nowFn = time.Now
	}
	cutoff := nowFn().UnixMilli() - notifyWindow.Milliseconds()

	var fresh []entity.ActiveOrder
	for _, o := range orders {
		if w.known[o.ID] {
			continue
		}
		if o.OrderTime >= cutoff {
			fresh = append(fresh, o)
		}
	}
	w.known = current
	return fresh
}
