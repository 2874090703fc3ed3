package repository

import (
	"encoding/json"
	"errors"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"gorm.io/gorm"
)

type RecordRepository struct {
	DB *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

// List คืน record ทั้ง collection — client จะ render จาก snapshot เต็มเสมอ
func (r *RecordRepository) List(scope, collection string) ([]entity.Record, error) {
	return r.ListTx(r.DB, scope, collection)
}

func (r *RecordRepository) ListTx(tx *gorm.DB, scope, collection string) ([]entity.Record, error) {
	var recs []entity.Record
	err := tx.Where("scope = ? AND collection = ?", scope, collection).
		Order("record_id").Find(&recs).Error
	return recs, err
}

func (r *RecordRepository) Get(tx *gorm.DB, scope, collection, recordID string) (*entity.Record, bool, error) {
	var rec entity.Record
	err := tx.Where("scope = ? AND collection = ? AND record_id = ?", scope, collection, recordID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// Set เขียน record ทั้งตัว (upsert) พร้อมประทับ lastUpdated ลงทั้ง row และใน JSON
func (r *RecordRepository) Set(tx *gorm.DB, scope, collection, recordID string, data []byte, stampedAt int64) error {
	stamped, err := stampLastUpdated(data, stampedAt)
	if err != nil {
		return err
	}
	rec, found, err := r.Get(tx, scope, collection, recordID)
	if err != nil {
		return err
	}
	if !found {
		return tx.Create(&entity.Record{
			Scope: scope, Collection: collection, RecordID: recordID,
			Data: stamped, LastUpdated: stampedAt,
		}).Error
	}
	rec.Data = stamped
	rec.LastUpdated = stampedAt
	return tx.Save(rec).Error
}

// MergeUpdate รวม field ที่ส่งมาเข้ากับ record เดิม (field-level last write wins)
// คืน found=false ถ้า record หายไปแล้ว — caller ใช้ตรวจ stale target
func (r *RecordRepository) MergeUpdate(tx *gorm.DB, scope, collection, recordID string, partial map[string]any, stampedAt int64) (bool, error) {
	rec, found, err := r.Get(tx, scope, collection, recordID)
	if err != nil || !found {
		return found, err
	}

	var current map[string]any
	if err := json.Unmarshal(rec.Data, &current); err != nil {
		return true, err
	}
	for k, v := range partial {
		current[k] = v
	}
	current["lastUpdated"] = stampedAt

	merged, err := json.Marshal(current)
	if err != nil {
		return true, err
	}
	rec.Data = merged
	rec.LastUpdated = stampedAt
	return true, tx.Save(rec).Error
}

// Delete ลบ record — คืน found=false ถ้าไม่มีอยู่แล้ว
func (r *RecordRepository) Delete(tx *gorm.DB, scope, collection, recordID string) (bool, error) {
	res := tx.Unscoped().
		Where("scope = ? AND collection = ? AND record_id = ?", scope, collection, recordID).
		Delete(&entity.Record{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ใส่ lastUpdated ลงใน JSON ของ record เอง ให้ client เห็น server timestamp
func stampLastUpdated(data []byte, stampedAt int64) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m["lastUpdated"] = stampedAt
	return json.Marshal(m)
}
