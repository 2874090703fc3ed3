package syncclient

import (
	"sync"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
)

// บิลที่เพิ่งสั่งควรโผล่บนจอลูกค้าทันที ไม่รอ roundtrip
// แต่ถ้า server ไม่ confirm ภายในนี้ ถือว่าส่งไม่สำเร็จ เอาออก
const overlayTTL = 30 * time.Second

// OrderOverlay ถือบิลที่สั่งไปแล้วแต่ snapshot ยังมาไม่ถึง (optimistic)
// Merge ใช้ทับรายการจาก server ก่อนวาดจอ — server confirm เมื่อไหร่
// ตัว overlay จะถอนตัวเองออก
type OrderOverlay struct {
	mu      sync.Mutex
	pending map[int64]overlayEntry
	now     func() time.Time
}

type overlayEntry struct {
	order    entity.ActiveOrder
	deadline time.Time
}

func NewOrderOverlay() *OrderOverlay {
	return &OrderOverlay{pending: make(map[int64]overlayEntry), now: time.Now}
}

// Add จำบิลที่เพิ่งยิงขึ้น server ไว้ชั่วคราว
func (o *OrderOverlay) Add(order entity.ActiveOrder) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[order.ID] = overlayEntry{order: order, deadline: o.now().Add(overlayTTL)}
}

// Merge รวมบิลจาก snapshot ล่าสุดกับ overlay ที่ยังรอ confirm
// บิลที่ server เห็นแล้ว หรือแขวนเกิน TTL จะหลุดจาก overlay
func (o *OrderOverlay) Merge(confirmed []entity.ActiveOrder) []entity.ActiveOrder {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	out := append([]entity.ActiveOrder(nil), confirmed...)
	for id, e := range o.pending {
		if containsOrder(confirmed, id) || now.After(e.deadline) {
			delete(o.pending, id)
			continue
		}
		out = append(out, e.order)
	}
	return out
}

func containsOrder(orders []entity.ActiveOrder, id int64) bool {
	for _, o := range orders {
		if o.ID == id {
			return true
		}
	}
	return false
}
