package services

import (
	"errors"
	"fmt"
)

var (
	// stale target: บิลโดนปิด/ยกเลิกไปแล้วจากเครื่องอื่น
	ErrOrderNotFound = errors.New("order not found or already finalized")

	ErrEmptyOrder     = errors.New("order has no items")
	ErrBadSplit       = errors.New("invalid split selection")
	ErrNoSourceOrders = errors.New("no source orders to merge")
	ErrInvalidLogin   = errors.New("invalid username or password")

	ErrFloorExists   = errors.New("floor already exists")
	ErrFloorNotEmpty = errors.New("floor still has tables")
	ErrTableExists   = errors.New("table name already exists on this floor")
	ErrTableOccupied = errors.New("table has an open order")
	ErrTableNotFound = errors.New("table not found")
)

// OversizeError — payload ใหญ่เกินเพดานต่อ document ของ store
// local state ฝั่งผู้เรียกยังอัปเดตได้ แต่จะไม่ถูกเขียนลง store
type OversizeError struct {
	Name string
	Size int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("document %q is %d bytes, over the %d byte limit", e.Name, e.Size, MaxDocumentBytes)
}
