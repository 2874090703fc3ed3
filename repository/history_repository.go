package repository

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"gorm.io/gorm"
)

// HistoryRepository รวมประวัติบิลจาก storage สองรุ่นให้เป็นชุดเดียว:
//   - รุ่นเก่า: array ทั้งก้อนใน document เดียว (completedOrders / cancelledOrders)
//   - รุ่นใหม่: record ต่อบิลใน collection *_v2
//
// เขียนใหม่ลงรุ่นใหม่เท่านั้น ส่วนอ่านต้อง union สองรุ่นไปจนกว่าจะ migrate ของเก่าหมด
type HistoryRepository struct {
	DB      *gorm.DB
	Docs    *DocumentRepository
	Records *RecordRepository
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{
		DB:      db,
		Docs:    NewDocumentRepository(db),
		Records: NewRecordRepository(db),
	}
}

// ListCompleted คืนบิลที่ปิดแล้วทั้งสองรุ่น ล่าสุดก่อน
// record ที่ถูก soft delete จะถูกกรองออก เว้นแต่ includeDeleted
func (r *HistoryRepository) ListCompleted(scope string, includeDeleted bool) ([]entity.CompletedOrder, error) {
	out, err := unionGenerations[entity.CompletedOrder](r, scope, entity.DocLegacyCompletedOrders, entity.ColCompletedOrders,
		func(o entity.CompletedOrder) int64 { return o.ID })
	if err != nil {
		return nil, err
	}
	if !includeDeleted {
		kept := out[:0]
		for _, o := range out {
			if !o.IsDeleted {
				kept = append(kept, o)
			}
		}
		out = kept
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletionTime > out[j].CompletionTime })
	return out, nil
}

func (r *HistoryRepository) ListCancelled(scope string, includeDeleted bool) ([]entity.CancelledOrder, error) {
	out, err := unionGenerations[entity.CancelledOrder](r, scope, entity.DocLegacyCancelledOrders, entity.ColCancelledOrders,
		func(o entity.CancelledOrder) int64 { return o.ID })
	if err != nil {
		return nil, err
	}
	if !includeDeleted {
		kept := out[:0]
		for _, o := range out {
			if !o.IsDeleted {
				kept = append(kept, o)
			}
		}
		out = kept
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CancellationTime > out[j].CancellationTime })
	return out, nil
}

// TerminalIDs คืน id ทุกบิลที่จบแล้ว (ทั้ง completed และ cancelled ทั้งสองรุ่น)
// ใช้โดย reconciliation sweep ตอนเก็บกวาด ghost active order
func (r *HistoryRepository) TerminalIDs(scope string) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	completed, err := r.ListCompleted(scope, true)
	if err != nil {
		return nil, err
	}
	for _, o := range completed {
		ids[o.ID] = true
	}
	cancelled, err := r.ListCancelled(scope, true)
	if err != nil {
		return nil, err
	}
	for _, o := range cancelled {
		ids[o.ID] = true
	}
	return ids, nil
}

// SoftDelete ตั้งธง isDeleted + deletedBy ทั้งสองรุ่น (ถ้ามี record อยู่รุ่นไหน)
func (r *HistoryRepository) SoftDelete(tx *gorm.DB, scope, legacyName, collection string, id int64, deletedBy string, stampedAt int64) error {
	recordID := formatID(id)
	if _, err := r.Records.MergeUpdate(tx, scope, collection, recordID,
		map[string]any{"isDeleted": true, "deletedBy": deletedBy}, stampedAt); err != nil {
		return err
	}
	return r.mutateLegacy(tx, scope, legacyName, id, func(entry map[string]any) bool {
		entry["isDeleted"] = true
		entry["deletedBy"] = deletedBy
		return true
	})
}

// HardDelete ลบ record ทิ้งจริงทั้งสองรุ่น — เฉพาะ admin
func (r *HistoryRepository) HardDelete(tx *gorm.DB, scope, legacyName, collection string, id int64) error {
	recordID := formatID(id)
	if _, err := r.Records.Delete(tx, scope, collection, recordID); err != nil {
		return err
	}
	return r.mutateLegacy(tx, scope, legacyName, id, func(entry map[string]any) bool {
		return false // ตัดออกจาก array
	})
}

// mutateLegacy แก้ entry ใน array รุ่นเก่า — keep=false หมายถึงลบ entry ทิ้ง
func (r *HistoryRepository) mutateLegacy(tx *gorm.DB, scope, legacyName string, id int64, mutate func(map[string]any) bool) error {
	doc, found, err := r.Docs.GetTx(tx, scope, legacyName)
	if err != nil || !found {
		return err
	}
	var entries []map[string]any
	if err := json.Unmarshal(doc.Value, &entries); err != nil {
		return err
	}

	changed := false
	kept := entries[:0]
	for _, e := range entries {
		if entryID(e) == id {
			changed = true
			if !mutate(e) {
				continue
			}
		}
		kept = append(kept, e)
	}
	if !changed {
		return nil
	}

	value, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return r.Docs.Set(tx, scope, legacyName, value)
}

// union สองรุ่นโดย dedup ด้วย id — รุ่นใหม่ชนะ
func unionGenerations[T any](r *HistoryRepository, scope, legacyName, collection string, idOf func(T) int64) ([]T, error) {
	seen := make(map[int64]bool)
	var out []T

	recs, err := r.Records.List(scope, collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		var o T
		if err := json.Unmarshal(rec.Data, &o); err != nil {
			continue // record เสีย อย่าพังทั้ง list
		}
		if id := idOf(o); !seen[id] {
			seen[id] = true
			out = append(out, o)
		}
	}

	doc, found, err := r.Docs.Get(scope, legacyName)
	if err != nil {
		return nil, err
	}
	if found {
		var legacy []T
		if err := json.Unmarshal(doc.Value, &legacy); err == nil {
			for _, o := range legacy {
				if id := idOf(o); !seen[id] {
					seen[id] = true
					out = append(out, o)
				}
			}
		}
	}
	return out, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func entryID(e map[string]any) int64 {
	if v, ok := e["id"].(float64); ok {
		return int64(v)
	}
	return 0
}
