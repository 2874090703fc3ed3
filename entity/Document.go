package entity

import (
	"gorm.io/gorm"
)

// Document เก็บ value เดี่ยวหนึ่งชุดต่อ (scope, name)
// scope = branch id หรือ "" สำหรับ global names (users, branches, settings)
// Value เป็น JSON ทั้งก้อน เขียนทับทั้ง document เสมอ (last write wins)
type Document struct {
	gorm.Model
	Scope string `gorm:"uniqueIndex:idx_document_path;size:64" json:"scope"`
	Name  string `gorm:"uniqueIndex:idx_document_path;size:128" json:"name"`
	Value []byte `gorm:"type:blob" json:"value"`
}
