package entity

// OrderCounter คือเลขคิวรายวันต่อสาขา — reset เป็น 1 เมื่อข้ามวัน
type OrderCounter struct {
	Count         int    `json:"count"`
	LastResetDate string `json:"lastResetDate"` // YYYY-MM-DD
}
