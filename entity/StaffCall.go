package entity

// StaffCall คือ event เรียกพนักงานจากโต๊ะลูกค้า — append-only, ไม่แก้ไข
type StaffCall struct {
	ID           int64  `json:"id"` // epoch millis ตอนกด
	TableID      int    `json:"tableId"`
	TableName    string `json:"tableName"`
	CustomerName string `json:"customerName"`
	BranchID     int    `json:"branchId"`
	Timestamp    int64  `json:"timestamp"`
}
