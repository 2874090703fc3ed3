package entity

// CompletedOrder = ActiveOrder ที่ปิดบิลแล้ว + ข้อมูลการชำระเงิน
// เป็น record ปลายทาง append-only: แก้ทีหลังได้เฉพาะ admin (audit ด้วย editedBy)
type CompletedOrder struct {
	ActiveOrder
	CompletionTime int64          `json:"completionTime"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
	CompletedBy    string         `json:"completedBy"`

	// soft delete — ซ่อนจาก history แต่ไม่ลบจริง
	IsDeleted bool   `json:"isDeleted,omitempty"`
	DeletedBy string `json:"deletedBy,omitempty"`

	// administrative correction หลังปิดบิล
	EditedBy string `json:"editedBy,omitempty"`
	EditedAt int64  `json:"editedAt,omitempty"`
}

type PaymentDetails struct {
	Method   string  `json:"method"` // cash | qr
	Received float64 `json:"received,omitempty"`
	Change   float64 `json:"change,omitempty"`
}
