package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// OrderItem คือ snapshot ของเมนู ณ ตอนสั่ง — ไม่อ้างกลับไปที่ catalog
// แก้เมนูทีหลังจะไม่กระทบบิลที่สั่งไปแล้ว
type OrderItem struct {
	CartItemID      string           `json:"cartItemId"` // key คงที่ ใช้จับคู่ตอน split/merge
	MenuItemID      int64            `json:"menuItemId"`
	Name            string           `json:"name"`
	Price           float64          `json:"price"`
	FinalPrice      float64          `json:"finalPrice"` // ราคาหลังรวม option
	Quantity        int              `json:"quantity"`
	IsTakeaway      bool             `json:"isTakeaway,omitempty"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
}

type SelectedOption struct {
	Group      string  `json:"group"`
	Choice     string  `json:"choice"`
	PriceDelta float64 `json:"priceDelta,omitempty"`
}

// NewCartItemID สร้าง id ฝั่ง client ตอนหยิบของลงตะกร้า
func NewCartItemID(menuItemID int64) string {
	return fmt.Sprintf("%d-%s", menuItemID, uuid.NewString())
}

// LineTotal = ราคาสุทธิของบรรทัดนี้
func (i OrderItem) LineTotal() float64 {
	return i.FinalPrice * float64(i.Quantity)
}
