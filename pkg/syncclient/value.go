package syncclient

import (
	"encoding/json"
	"sync"
)

// ValueBinding ผูกตัวแปรหนึ่งตัวเข้ากับ document บน server:
// ค่าเปลี่ยนที่ไหนก็ตาม ทุกเครื่องเห็นเหมือนกัน
//
// กติกาสำคัญ: ห้ามเขียนจนกว่าจะได้ snapshot แรก (IsLive) — ไม่งั้น
// default เก่าของเครื่องที่เพิ่งเปิดจะทับข้อมูลจริงของทั้งร้าน
type ValueBinding[T any] struct {
	c    *Client
	name string

	// LocalOnly = ไม่ sync (เช่นค่าที่ยังไม่ได้เลือกสาขา) — live ทันที
	LocalOnly bool

	// Normalize ซ่อมข้อมูลขาเข้า (เช่น dedup โต๊ะ, แปลงวันที่ counter)
	Normalize func(json.RawMessage) json.RawMessage

	// OnChange ถูกเรียกทุกครั้งที่ค่าเปลี่ยน รวมทั้งจากเครื่องอื่น
	OnChange func(T)

	mu       sync.RWMutex
	value    T
	fallback T
	live     bool
}

func NewValueBinding[T any](c *Client, name string, defaultValue T) *ValueBinding[T] {
	return &ValueBinding[T]{c: c, name: name, value: defaultValue, fallback: defaultValue}
}

// Start เริ่ม subscribe — LocalOnly จะ live ทันทีด้วยค่า default
func (b *ValueBinding[T]) Start() error {
	if b.LocalOnly {
		b.mu.Lock()
		b.live = true
		b.mu.Unlock()
		return nil
	}
	return b.c.Subscribe("document", b.name, b.apply)
}

func (b *ValueBinding[T]) apply(snap Snapshot) {
	value := b.fallback
	if snap.Exists {
		raw := snap.Value
		if b.Normalize != nil {
			raw = b.Normalize(raw)
		}
		var decoded T
		if err := json.Unmarshal(raw, &decoded); err == nil {
			value = decoded
		}
		// decode ไม่ได้ → คงไว้ที่ default แทนที่จะพัง
	}

	b.mu.Lock()
	b.value = value
	b.live = true
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(value)
	}
}

func (b *ValueBinding[T]) Value() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// IsLive = ได้ snapshot แรกแล้ว เขียนได้
func (b *ValueBinding[T]) IsLive() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live
}

// Set เปลี่ยนค่า: อัปเดต local ทันที แล้วส่งขึ้น server
//   - ยังไม่ live → ErrNotLive ไม่แตะอะไรเลย
//   - ใหญ่เกินเพดาน → local อัปเดตแล้วแต่คืน *OversizeError (ไม่ส่งขึ้น)
func (b *ValueBinding[T]) Set(v T) error {
	b.mu.Lock()
	if !b.live {
		b.mu.Unlock()
		return ErrNotLive
	}
	b.value = v
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(v)
	}
	if b.LocalOnly {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(data) > MaxValueBytes {
		return &OversizeError{Name: b.name, Size: len(data)}
	}
	return b.c.SetDocument(b.name, data)
}
