package entity

import (
	"gorm.io/gorm"
)

// Record คือหนึ่งรายการใน collection (เช่น activeOrders, completedOrders_v2)
// Data เป็น JSON ของ record ทั้งตัว รวม field "lastUpdated" ที่ server ประทับให้
type Record struct {
	gorm.Model
	Scope       string `gorm:"uniqueIndex:idx_record_path;size:64" json:"scope"`
	Collection  string `gorm:"uniqueIndex:idx_record_path;size:128" json:"collection"`
	RecordID    string `gorm:"uniqueIndex:idx_record_path;size:64" json:"recordId"`
	Data        []byte `gorm:"type:blob" json:"data"`
	LastUpdated int64  `json:"lastUpdated"` // epoch millis ประทับตอนเขียน
}
