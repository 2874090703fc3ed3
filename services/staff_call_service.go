package services

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
)

// เก็บ event เรียกพนักงานย้อนหลังแค่วันเดียวพอ — client สนแค่ 5 นาทีล่าสุด
const staffCallRetention = 24 * time.Hour

// StaffCallService จัดการ document "staffCalls" ต่อสาขา (append-only list)
type StaffCallService struct {
	Store *StoreService
	now   func() time.Time
}

func NewStaffCallService(store *StoreService) *StaffCallService {
	return &StaffCallService{Store: store, now: time.Now}
}

func (s *StaffCallService) List(branchID string) ([]entity.StaffCall, error) {
	raw, found, err := s.Store.GetDocument(branchID, entity.DocStaffCalls)
	if err != nil || !found {
		return nil, err
	}
	var calls []entity.StaffCall
	if err := json.Unmarshal(raw, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

// Call ต่อ event ใหม่ท้าย list พร้อมตัดของเก่าเกิน retention ทิ้ง
func (s *StaffCallService) Call(branchID string, tableID int, customerName string) (*entity.StaffCall, error) {
	calls, err := s.List(branchID)
	if err != nil {
		return nil, err
	}

	nowMs := s.now().UnixMilli()
	tableName := "โต๊ะ " + strconv.Itoa(tableID)
	if tables, err := s.Store.BranchTables(branchID); err == nil {
		for _, t := range tables {
			if t.ID == tableID {
				tableName = t.Name
				break
			}
		}
	}

	bid, _ := strconv.Atoi(branchID)
	call := entity.StaffCall{
		ID:           nowMs,
		TableID:      tableID,
		TableName:    tableName,
		CustomerName: customerName,
		BranchID:     bid,
		Timestamp:    nowMs,
	}

	cutoff := nowMs - staffCallRetention.Milliseconds()
	kept := make([]entity.StaffCall, 0, len(calls)+1)
	for _, c := range calls {
		if c.Timestamp >= cutoff {
			kept = append(kept, c)
		}
	}
	kept = append(kept, call)

	value, err := json.Marshal(kept)
	if err != nil {
		return nil, err
	}
	if err := s.Store.SetDocument(branchID, entity.DocStaffCalls, value); err != nil {
		return nil, err
	}
	return &call, nil
}
