package services

import (
	"encoding/json"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/repository"

	"gorm.io/gorm"
)

// เพดานขนาดต่อ document — กันก่อนถึง hard limit ~1MB ของ store
const MaxDocumentBytes = 900 * 1024

// ChangeNotifier รับแจ้งทุก commit เพื่อ fan-out snapshot ให้ client ที่ subscribe
// (ws.SyncHub implement ตัวนี้ — main เป็นคนเสียบให้)
type ChangeNotifier interface {
	DocumentChanged(scope, name string)
	CollectionChanged(scope, collection string)
}

// StoreService คือทางเข้าหลักของ document/record store:
// ตรวจขนาด, ประทับ server timestamp, แล้วแจ้ง hub หลัง commit
type StoreService struct {
	DB       *gorm.DB
	Docs     *repository.DocumentRepository
	Records  *repository.RecordRepository
	Notifier ChangeNotifier // nil ได้ (เช่นใน test)

	now func() time.Time
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{
		DB:      db,
		Docs:    repository.NewDocumentRepository(db),
		Records: repository.NewRecordRepository(db),
		now:     time.Now,
	}
}

func (s *StoreService) NotifyDocumentChanged(scope, name string) {
	if s.Notifier != nil {
		s.Notifier.DocumentChanged(scope, name)
	}
}

func (s *StoreService) NotifyCollectionChanged(scope, collection string) {
	if s.Notifier != nil {
		s.Notifier.CollectionChanged(scope, collection)
	}
}

// ---------------- Documents ----------------

func (s *StoreService) GetDocument(scope, name string) (json.RawMessage, bool, error) {
	doc, found, err := s.Docs.Get(scope, name)
	if err != nil || !found {
		return nil, found, err
	}
	return json.RawMessage(doc.Value), true, nil
}

// SetDocument เขียนทับทั้ง value — ปฏิเสธถ้าเกินเพดานขนาด (ไม่เขียนเลย)
func (s *StoreService) SetDocument(scope, name string, value json.RawMessage) error {
	if len(value) > MaxDocumentBytes {
		return &OversizeError{Name: name, Size: len(value)}
	}
	if err := s.Docs.Set(s.DB, scope, name, value); err != nil {
		return err
	}
	s.NotifyDocumentChanged(scope, name)
	return nil
}

// ---------------- Records ----------------

func (s *StoreService) ListRecords(scope, collection string) ([]json.RawMessage, error) {
	recs, err := s.Records.List(scope, collection)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		out = append(out, json.RawMessage(r.Data))
	}
	return out, nil
}

func (s *StoreService) AddRecord(scope, collection, recordID string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if err := s.Records.Set(s.DB, scope, collection, recordID, data, s.now().UnixMilli()); err != nil {
		return err
	}
	s.NotifyCollectionChanged(scope, collection)
	return nil
}

// UpdateRecord merge field ที่ส่งมา — ErrOrderNotFound ถ้า record หายไปแล้ว
func (s *StoreService) UpdateRecord(scope, collection, recordID string, partial map[string]any) error {
	found, err := s.Records.MergeUpdate(s.DB, scope, collection, recordID, partial, s.now().UnixMilli())
	if err != nil {
		return err
	}
	if !found {
		return ErrOrderNotFound
	}
	s.NotifyCollectionChanged(scope, collection)
	return nil
}

func (s *StoreService) RemoveRecord(scope, collection, recordID string) error {
	found, err := s.Records.Delete(s.DB, scope, collection, recordID)
	if err != nil {
		return err
	}
	if !found {
		return ErrOrderNotFound
	}
	s.NotifyCollectionChanged(scope, collection)
	return nil
}

// ---------------- Branch settings ----------------

// BranchTax อ่านการตั้งค่าภาษีของสาขา (default: ปิด, 7%)
func (s *StoreService) BranchTax(branchID string) (bool, float64) {
	enabled := false
	rate := 7.0

	if raw, found, err := s.GetDocument(entity.DocScope(entity.DocIsTaxEnabled, branchID), entity.DocIsTaxEnabled); err == nil && found {
		_ = json.Unmarshal(raw, &enabled)
	}
	if raw, found, err := s.GetDocument(entity.DocScope(entity.DocTaxRate, branchID), entity.DocTaxRate); err == nil && found {
		_ = json.Unmarshal(raw, &rate)
	}
	return enabled, rate
}

// BranchTables อ่านผังโต๊ะของสาขา (dedup ด้วย id — ตัวแรกชนะ เผื่อข้อมูลเก่าซ้ำ)
func (s *StoreService) BranchTables(branchID string) ([]entity.Table, error) {
	raw, found, err := s.GetDocument(branchID, entity.DocTables)
	if err != nil || !found {
		return nil, err
	}
	var tables []entity.Table
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	out := tables[:0]
	for _, t := range tables {
		if !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out, nil
}
