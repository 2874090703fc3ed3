package services

import (
	"encoding/json"
	"fmt"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
)

// TableService จัดการผังโต๊ะ/ชั้นของสาขา (documents "tables" กับ "floors")
type TableService struct {
	Store  *StoreService
	Orders *OrderService
}

func NewTableService(store *StoreService, orders *OrderService) *TableService {
	return &TableService{Store: store, Orders: orders}
}

func (s *TableService) Floors(branchID string) ([]string, error) {
	raw, found, err := s.Store.GetDocument(branchID, entity.DocFloors)
	if err != nil || !found {
		return nil, err
	}
	var floors []string
	if err := json.Unmarshal(raw, &floors); err != nil {
		return nil, err
	}
	return floors, nil
}

func (s *TableService) AddFloor(branchID, name string) error {
	floors, err := s.Floors(branchID)
	if err != nil {
		return err
	}
	for _, f := range floors {
		if f == name {
			return ErrFloorExists
		}
	}
	return s.saveFloors(branchID, append(floors, name))
}

// RemoveFloor ลบได้เฉพาะชั้นที่ไม่มีโต๊ะเหลือ
func (s *TableService) RemoveFloor(branchID, name string) error {
	floors, err := s.Floors(branchID)
	if err != nil {
		return err
	}
	tables, err := s.Store.BranchTables(branchID)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t.Floor == name {
			return ErrFloorNotEmpty
		}
	}

	kept := floors[:0]
	for _, f := range floors {
		if f != name {
			kept = append(kept, f)
		}
	}
	return s.saveFloors(branchID, kept)
}

// AddTable เพิ่มโต๊ะใหม่ในชั้นที่เลือก — id ต่อจาก max เดิม,
// ชื่อว่างจะตั้ง "T<ลำดับถัดไป>" ให้
func (s *TableService) AddTable(branchID, floor, name string) (*entity.Table, error) {
	tables, err := s.Store.BranchTables(branchID)
	if err != nil {
		return nil, err
	}

	maxID := 0
	for _, t := range tables {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if name == "" {
		name = fmt.Sprintf("T%d", len(tables)+1)
	}
	for _, t := range tables {
		if t.Floor == floor && t.Name == name {
			return nil, ErrTableExists
		}
	}

	table := entity.Table{ID: maxID + 1, Name: name, Floor: floor}
	if err := s.saveTables(branchID, append(tables, table)); err != nil {
		return nil, err
	}
	return &table, nil
}

// RemoveLastTable ถอดโต๊ะ id สูงสุดออก — ห้ามถอดถ้ายังมีบิลเปิดค้าง
func (s *TableService) RemoveLastTable(branchID string) error {
	tables, err := s.Store.BranchTables(branchID)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return ErrTableNotFound
	}

	last := tables[0]
	for _, t := range tables[1:] {
		if t.ID > last.ID {
			last = t
		}
	}

	orders, err := s.Orders.ActiveOrders(branchID)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.TableID == last.ID {
			return ErrTableOccupied
		}
	}

	kept := make([]entity.Table, 0, len(tables)-1)
	for _, t := range tables {
		if t.ID != last.ID {
			kept = append(kept, t)
		}
	}
	return s.saveTables(branchID, kept)
}

// SetReservation จอง/ยกเลิกจองโต๊ะ (nil = ยกเลิก)
func (s *TableService) SetReservation(branchID string, tableID int, r *entity.Reservation) error {
	tables, err := s.Store.BranchTables(branchID)
	if err != nil {
		return err
	}
	for i := range tables {
		if tables[i].ID == tableID {
			tables[i].Reservation = r
			return s.saveTables(branchID, tables)
		}
	}
	return ErrTableNotFound
}

// SetPin ตั้ง/ล้าง PIN สำหรับ session ลูกค้าข้างโต๊ะ
func (s *TableService) SetPin(branchID string, tableID int, pin *string) error {
	tables, err := s.Store.BranchTables(branchID)
	if err != nil {
		return err
	}
	for i := range tables {
		if tables[i].ID == tableID {
			tables[i].ActivePin = pin
			return s.saveTables(branchID, tables)
		}
	}
	return ErrTableNotFound
}

func (s *TableService) saveTables(branchID string, tables []entity.Table) error {
	value, err := json.Marshal(tables)
	if err != nil {
		return err
	}
	return s.Store.SetDocument(branchID, entity.DocTables, value)
}

func (s *TableService) saveFloors(branchID string, floors []string) error {
	value, err := json.Marshal(floors)
	if err != nil {
		return err
	}
	return s.Store.SetDocument(branchID, entity.DocFloors, value)
}
