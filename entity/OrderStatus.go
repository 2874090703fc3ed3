package entity

// สถานะของ order: waiting → cooking → served → (completed | cancelled)
// completed/cancelled ไม่เคยอยู่บน ActiveOrder — เป็นการย้าย record ไป
// collection ปลายทาง (CompletedOrder / CancelledOrder) แล้วลบจาก active set
type OrderStatus string

const (
	StatusWaiting   OrderStatus = "waiting"
	StatusCooking   OrderStatus = "cooking"
	StatusServed    OrderStatus = "served"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
