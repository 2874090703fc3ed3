package entity

import "strconv"

// ActiveOrder คือบิลที่ยังเปิดอยู่ — หนึ่ง record ต่อหนึ่งบิล
// ไม่เก็บยอดรวมลง store: คำนวณจาก items ทุกครั้ง
type ActiveOrder struct {
	ID                int64       `json:"id"` // epoch millis ตอนสร้าง ใช้เป็น key
	OrderNumber       int         `json:"orderNumber"`
	ManualOrderNumber string      `json:"manualOrderNumber,omitempty"` // เลขจากแอป delivery
	TableID           int         `json:"tableId"`                     // -1 = delivery
	TableName         string      `json:"tableName"`
	Floor             string      `json:"floor"`
	CustomerName      string      `json:"customerName"`
	CustomerCount     int         `json:"customerCount"`
	Items             []OrderItem `json:"items"`
	OrderType         string      `json:"orderType"` // dine-in | takeaway | delivery
	TaxRate           float64     `json:"taxRate"`
	TaxAmount         float64     `json:"taxAmount"`
	PlacedBy          string      `json:"placedBy"`
	Status            OrderStatus `json:"status"`
	OrderTime         int64       `json:"orderTime"`
	CookingStartTime  int64       `json:"cookingStartTime,omitempty"`

	// lineage จาก split/merge
	IsSplitChild       bool  `json:"isSplitChild,omitempty"`
	ParentOrderID      int   `json:"parentOrderId,omitempty"` // orderNumber ของบิลต้นทาง
	MergedOrderNumbers []int `json:"mergedOrderNumbers,omitempty"`
}

const DeliveryTableID = -1

// RecordID คือ key ใน collection activeOrders
func (o ActiveOrder) RecordID() string {
	return strconv.FormatInt(o.ID, 10)
}

// Subtotal รวมราคาทุกบรรทัด (ไม่รวมภาษี)
func (o ActiveOrder) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.LineTotal()
	}
	return sum
}

// TotalQuantity รวมจำนวนชิ้นทั้งบิล
func (o ActiveOrder) TotalQuantity() int {
	var n int
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
