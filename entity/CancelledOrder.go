package entity

// CancelledOrder = ActiveOrder ที่ถูกยกเลิก + เหตุผลและผู้ยกเลิก
type CancelledOrder struct {
	ActiveOrder
	CancellationTime   int64  `json:"cancellationTime"`
	CancellationReason string `json:"cancellationReason"`
	CancellationNotes  string `json:"cancellationNotes,omitempty"`
	CancelledBy        string `json:"cancelledBy"`

	IsDeleted bool   `json:"isDeleted,omitempty"`
	DeletedBy string `json:"deletedBy,omitempty"`
}

// เหตุผลยกเลิกที่หน้าจอให้เลือก
const (
	CancelReasonCustomer  = "customer-request"
	CancelReasonOutOfItem = "out-of-stock"
	CancelReasonMistake   = "staff-mistake"
	CancelReasonOther     = "other"
)
