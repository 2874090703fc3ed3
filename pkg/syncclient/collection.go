package syncclient

import (
	"encoding/json"
	"sync"
)

// CollectionBinding ผูก slice เข้ากับ collection บน server
// ทุก snapshot คือรายการเต็ม — แทนที่ของเดิมทั้งก้อน ไม่มี merge ฝั่งนี้
type CollectionBinding[T any] struct {
	c    *Client
	name string

	// OnChange ถูกเรียกทุก snapshot ใหม่
	OnChange func([]T)

	mu    sync.RWMutex
	items []T
	live  bool
}

func NewCollectionBinding[T any](c *Client, name string) *CollectionBinding[T] {
	return &CollectionBinding[T]{c: c, name: name}
}

func (b *CollectionBinding[T]) Start() error {
	return b.c.Subscribe("collection", b.name, b.apply)
}

func (b *CollectionBinding[T]) apply(snap Snapshot) {
	items := make([]T, 0, len(snap.Records))
	for _, rec := range snap.Records {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			continue // record เสียตัวเดียวไม่ควรทำทั้งรายการหาย
		}
		items = append(items, item)
	}

	b.mu.Lock()
	b.items = items
	b.live = true
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(items)
	}
}

func (b *CollectionBinding[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]T(nil), b.items...)
}

func (b *CollectionBinding[T]) IsLive() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live
}

// Add เพิ่ม/ทับ record ทั้งตัว — server ประทับ lastUpdated ให้
func (b *CollectionBinding[T]) Add(id string, item T) error {
	if !b.IsLive() {
		return ErrNotLive
	}
	return b.c.AddRecord(b.name, id, item)
}

// Update merge เฉพาะ field ที่ส่ง
func (b *CollectionBinding[T]) Update(id string, partial map[string]any) error {
	if !b.IsLive() {
		return ErrNotLive
	}
	return b.c.UpdateRecord(b.name, id, partial)
}

func (b *CollectionBinding[T]) Remove(id string) error {
	if !b.IsLive() {
		return ErrNotLive
	}
	return b.c.RemoveRecord(b.name, id)
}
