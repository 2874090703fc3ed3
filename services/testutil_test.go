package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// sqlite in-memory ต้องใช้ shared cache + ชื่อไม่ซ้ำ ไม่งั้น connection
// ที่สองของ pool จะได้ db เปล่า
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:svctest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Document{}, &entity.Record{}))
	return db
}

// clock ปลอมที่ขยับเองได้ — ใช้ทดสอบ reset เลขคิวข้ามวัน
type testClock struct {
	t time.Time
}

func newTestClock(value string) *testClock {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &testClock{t: ts}
}

func (c *testClock) Now() time.Time            { return c.t }
func (c *testClock) Advance(d time.Duration)   { c.t = c.t.Add(d) }
func (c *testClock) Set(value string)          { c.t, _ = time.Parse(time.RFC3339, value) }

func newTestOrderService(t *testing.T) (*OrderService, *StoreService, *testClock) {
	t.Helper()
	db := newTestDB(t)
	store := NewStoreService(db)
	orders := NewOrderService(db, store)

	clock := newTestClock("2024-05-01T10:00:00Z")
	store.now = clock.Now
	orders.now = clock.Now
	return orders, store, clock
}

func testItem(cartID, name string, price float64, qty int) entity.OrderItem {
	return entity.OrderItem{
		CartItemID: cartID,
		MenuItemID: 1,
		Name:       name,
		Price:      price,
		FinalPrice: price,
		Quantity:   qty,
	}
}
