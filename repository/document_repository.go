package repository

import (
	"errors"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

// Get อ่าน document หนึ่งตัว — found=false ถ้ายังไม่เคยมี (ไม่ถือเป็น error)
func (r *DocumentRepository) Get(scope, name string) (*entity.Document, bool, error) {
	return r.GetTx(r.DB, scope, name)
}

// GetTx แบบเดียวกับ Get แต่วิ่งใน transaction (ใช้ตอนจองเลขคิว)
func (r *DocumentRepository) GetTx(tx *gorm.DB, scope, name string) (*entity.Document, bool, error) {
	var doc entity.Document
	err := tx.Where("scope = ? AND name = ?", scope, name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &doc, true, nil
}

// Set เขียนทับ value ทั้งก้อน (upsert)
func (r *DocumentRepository) Set(tx *gorm.DB, scope, name string, value []byte) error {
	var doc entity.Document
	err := tx.Where("scope = ? AND name = ?", scope, name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&entity.Document{Scope: scope, Name: name, Value: value}).Error
	}
	if err != nil {
		return err
	}
	doc.Value = value
	return tx.Save(&doc).Error
}
