package services

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/repository"

	"gorm.io/gorm"
)

// OrderService คุม lifecycle ของบิล:
// place → cooking → served → ปิดบิล (จ่ายเงิน) หรือยกเลิก
// ทุก operation เขียนผ่าน store แล้วปล่อยให้ snapshot fan-out ไปทุกเครื่องเอง
// ไม่มี retry — เขียนพลาดแจ้ง error ให้หน้าร้านกดซ้ำเอง
type OrderService struct {
	DB      *gorm.DB
	Store   *StoreService
	Records *repository.RecordRepository
	Docs    *repository.DocumentRepository
	History *repository.HistoryRepository

	now func() time.Time
}

func NewOrderService(db *gorm.DB, store *StoreService) *OrderService {
	return &OrderService{
		DB:      db,
		Store:   store,
		Records: repository.NewRecordRepository(db),
		Docs:    repository.NewDocumentRepository(db),
		History: repository.NewHistoryRepository(db),
		now:     time.Now,
	}
}

// ---------------- Place ----------------

type PlaceOrderInput struct {
	Items             []entity.OrderItem `json:"items" binding:"required"`
	CustomerName      string             `json:"customerName"`
	CustomerCount     int                `json:"customerCount"`
	TableID           int                `json:"tableId"`          // override; 0 = ใช้โต๊ะของ session
	CustomerTableID   int                `json:"customerTableId"`  // โต๊ะจาก session ลูกค้า
	IsDelivery        bool               `json:"isDelivery"`
	DeliveryProvider  string             `json:"deliveryProvider"`
	ManualOrderNumber string             `json:"manualOrderNumber"`

	PlacedBy string `json:"-"` // controller ใส่ให้จาก session
}

// Place สร้างบิลใหม่ status waiting พร้อมจองเลขคิวรายวัน
// เลขคิวถูกจองใน transaction เดียวกับการเขียนบิล — สองเครื่องกดพร้อมกัน
// จะไม่ได้เลขซ้ำ (ต่างจากระบบเดิมที่มีช่องโหว่ read-then-write)
func (s *OrderService) Place(branchID string, in PlaceOrderInput) (*entity.ActiveOrder, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	// client เก่าบางตัวไม่ส่ง cartItemId มา — ออกให้ ไม่งั้น split/merge จับคู่ไม่ได้
	for i := range in.Items {
		if in.Items[i].CartItemID == "" {
			in.Items[i].CartItemID = entity.NewCartItemID(in.Items[i].MenuItemID)
		}
	}

	taxEnabled, taxRate := s.Store.BranchTax(branchID)
	today := s.now().Format("2006-01-02")
	nowMs := s.now().UnixMilli()

	order := entity.ActiveOrder{
		ID:                nowMs,
		ManualOrderNumber: in.ManualOrderNumber,
		CustomerName:      orDefault(in.CustomerName, "ลูกค้า"),
		CustomerCount:     maxInt(in.CustomerCount, 1),
		Items:             in.Items,
		PlacedBy:          in.PlacedBy,
		Status:            entity.StatusWaiting,
		OrderTime:         nowMs,
	}

	if in.IsDelivery {
		order.TableID = entity.DeliveryTableID
		order.TableName = orDefault(in.DeliveryProvider, "Delivery")
		order.Floor = "-"
		order.OrderType = "delivery"
	} else {
		tid := in.TableID
		if tid == 0 {
			tid = in.CustomerTableID
		}
		order.TableID = tid
		order.TableName, order.Floor = s.tableDisplay(branchID, tid)
		order.OrderType = "dine-in"
		for _, it := range in.Items {
			if it.IsTakeaway {
				order.OrderType = "takeaway"
				break
			}
		}
	}

	if taxEnabled {
		order.TaxRate = taxRate
		order.TaxAmount = order.Subtotal() * taxRate / 100
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		num, err := s.drawOrderNumber(tx, branchID, today)
		if err != nil {
			return err
		}
		order.OrderNumber = num

		// สองเครื่องกดในมิลลิวินาทีเดียวกันได้ id ชนกัน — Set เป็น upsert
		// ถ้าไม่ขยับ id บิลแรกจะโดนทับหายเงียบ ๆ
		order.ID, err = s.freeOrderID(tx, branchID, nowMs)
		if err != nil {
			return err
		}

		data, err := json.Marshal(order)
		if err != nil {
			return err
		}
		return s.Records.Set(tx, branchID, entity.ColActiveOrders, order.RecordID(), data, nowMs)
	})
	if err != nil {
		return nil, err
	}

	s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	s.Store.NotifyDocumentChanged(branchID, entity.DocOrderCounter)
	return &order, nil
}

// drawOrderNumber จองเลขคิวถัดไปใน transaction — reset เป็น 1 เมื่อข้ามวัน
func (s *OrderService) drawOrderNumber(tx *gorm.DB, branchID, today string) (int, error) {
	var counter entity.OrderCounter
	doc, found, err := s.Docs.GetTx(tx, branchID, entity.DocOrderCounter)
	if err != nil {
		return 0, err
	}
	if found {
		if c, ok := DecodeCounter(doc.Value); ok {
			counter = c
		}
	}

	next, updated := NextOrderNumber(counter, today)
	value, err := json.Marshal(updated)
	if err != nil {
		return 0, err
	}
	if err := s.Docs.Set(tx, branchID, entity.DocOrderCounter, value); err != nil {
		return 0, err
	}
	return next, nil
}

// ---------------- Kitchen transitions ----------------

// StartCooking: waiting → cooking (กดซ้ำได้ แค่ทับเวลาเริ่ม)
func (s *OrderService) StartCooking(branchID string, orderID int64) error {
	return s.Store.UpdateRecord(branchID, entity.ColActiveOrders, recordID(orderID), map[string]any{
		"status":           entity.StatusCooking,
		"cookingStartTime": s.now().UnixMilli(),
	})
}

// MarkServed ("bump"): → served ได้ทั้งจาก cooking และ waiting — ไม่มีย้อนกลับ
func (s *OrderService) MarkServed(branchID string, orderID int64) error {
	return s.Store.UpdateRecord(branchID, entity.ColActiveOrders, recordID(orderID), map[string]any{
		"status": entity.StatusServed,
	})
}

// MoveTable ย้ายบิลไปโต๊ะอื่น — แตะแค่ tableId field เดียว
func (s *OrderService) MoveTable(branchID string, orderID int64, newTableID int) error {
	return s.Store.UpdateRecord(branchID, entity.ColActiveOrders, recordID(orderID), map[string]any{
		"tableId": newTableID,
	})
}

// UpdateItems แก้รายการในบิลที่ยังเปิดอยู่ (จากหน้าบิลโต๊ะ) แล้วคิดภาษีใหม่
// อ่านกับเขียนอยู่ใน transaction เดียว — ภาษีต้องคิดจากรายการชุดที่เขียนจริง
func (s *OrderService) UpdateItems(branchID string, orderID int64, items []entity.OrderItem, customerCount int) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	nowMs := s.now().UnixMilli()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.loadActiveOrder(tx, branchID, orderID)
		if err != nil {
			return err
		}
		order.Items = items
		found, err := s.Records.MergeUpdate(tx, branchID, entity.ColActiveOrders, recordID(orderID), map[string]any{
			"items":         items,
			"customerCount": customerCount,
			"taxAmount":     order.Subtotal() * order.TaxRate / 100,
		}, nowMs)
		if err != nil {
			return err
		}
		if !found {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	return nil
}

// ---------------- Split ----------------

type SplitItem struct {
	CartItemID string `json:"cartItemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
}

// Split แยกบางรายการออกเป็นบิลใหม่ (ได้เลขคิวใหม่)
// ผลรวมจำนวนต่อ cartItemId ของสองบิลหลังแยก = ของบิลเดิมเสมอ
func (s *OrderService) Split(branchID string, orderID int64, splits []SplitItem) (*entity.ActiveOrder, error) {
	if len(splits) == 0 {
		return nil, ErrBadSplit
	}

	taxEnabled, _ := s.Store.BranchTax(branchID)
	today := s.now().Format("2006-01-02")
	nowMs := s.now().UnixMilli()

	var child entity.ActiveOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// ต้องเช็คซ้ำก่อนแตะ — บิลอาจโดนปิดไปแล้วจากเครื่องอื่น
		orig, err := s.loadActiveOrder(tx, branchID, orderID)
		if err != nil {
			return err
		}

		byCart := make(map[string]entity.OrderItem, len(orig.Items))
		for _, it := range orig.Items {
			byCart[it.CartItemID] = it
		}

		var splitOut []entity.OrderItem
		taken := make(map[string]int, len(splits))
		for _, sp := range splits {
			it, ok := byCart[sp.CartItemID]
			if !ok || sp.Quantity <= 0 || sp.Quantity > it.Quantity {
				return ErrBadSplit
			}
			it.Quantity = sp.Quantity
			splitOut = append(splitOut, it)
			taken[sp.CartItemID] = sp.Quantity
		}

		var remainder []entity.OrderItem
		for _, it := range orig.Items {
			it.Quantity -= taken[it.CartItemID]
			if it.Quantity > 0 {
				remainder = append(remainder, it)
			}
		}

		num, err := s.drawOrderNumber(tx, branchID, today)
		if err != nil {
			return err
		}

		child = *orig
		child.ID, err = s.freeOrderID(tx, branchID, nowMs)
		if err != nil {
			return err
		}
		child.OrderNumber = num
		child.Items = splitOut
		child.IsSplitChild = true
		child.ParentOrderID = orig.OrderNumber
		child.MergedOrderNumbers = nil
		child.TaxAmount = 0
		orig.Items = remainder
		orig.TaxAmount = 0
		if taxEnabled {
			child.TaxAmount = child.Subtotal() * child.TaxRate / 100
			orig.TaxAmount = orig.Subtotal() * orig.TaxRate / 100
		}

		if err := s.writeActiveOrder(tx, branchID, &child, nowMs); err != nil {
			return err
		}
		return s.writeActiveOrder(tx, branchID, orig, nowMs)
	})
	if err != nil {
		return nil, err
	}

	s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	s.Store.NotifyDocumentChanged(branchID, entity.DocOrderCounter)
	return &child, nil
}

// ---------------- Merge ----------------

// Merge รวมบิลต้นทางเข้าบิลปลายทาง: รายการที่ cartItemId ตรงกันบวกจำนวน
// ที่เหลือต่อท้าย, จำนวนลูกค้าบวกกัน, เก็บเลขคิวที่ถูกรวมไว้โชว์บนใบเสร็จ
// ลำดับสำคัญ: เขียนปลายทางก่อนค่อยลบต้นทาง — โดนตัดกลางคันของไม่หาย
func (s *OrderService) Merge(branchID string, targetID int64, sourceIDs []int64) (*entity.ActiveOrder, error) {
	taxEnabled, _ := s.Store.BranchTax(branchID)
	nowMs := s.now().UnixMilli()

	var target *entity.ActiveOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = s.loadActiveOrder(tx, branchID, targetID)
		if err != nil {
			return err
		}

		items := append([]entity.OrderItem(nil), target.Items...)
		numbers := append([]int(nil), target.MergedOrderNumbers...)
		count := target.CustomerCount

		var absorbed []int64
		for _, srcID := range sourceIDs {
			if srcID == targetID {
				continue
			}
			src, err := s.loadActiveOrder(tx, branchID, srcID)
			if err == ErrOrderNotFound {
				continue // โดนปิดไปแล้ว ข้าม
			}
			if err != nil {
				return err
			}

			for _, si := range src.Items {
				merged := false
				for i := range items {
					if items[i].CartItemID == si.CartItemID {
						items[i].Quantity += si.Quantity
						merged = true
						break
					}
				}
				if !merged {
					items = append(items, si)
				}
			}
			count += src.CustomerCount
			numbers = append(numbers, src.OrderNumber)
			numbers = append(numbers, src.MergedOrderNumbers...)
			absorbed = append(absorbed, srcID)
		}
		if len(absorbed) == 0 {
			return ErrNoSourceOrders
		}

		target.Items = items
		target.CustomerCount = count
		target.MergedOrderNumbers = dedupInts(numbers)
		target.TaxAmount = 0
		if taxEnabled {
			target.TaxAmount = target.Subtotal() * target.TaxRate / 100
		}

		if err := s.writeActiveOrder(tx, branchID, target, nowMs); err != nil {
			return err
		}
		for _, srcID := range absorbed {
			if _, err := s.Records.Delete(tx, branchID, entity.ColActiveOrders, recordID(srcID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	return target, nil
}

// ---------------- Terminal transitions ----------------

// Cancel ย้ายบิลไปเป็น CancelledOrder แล้วถอนออกจาก active set
// เขียน record ปลายทางก่อนลบ — พังกลางคันได้อย่างมาก ghost ที่ sweep เก็บได้
func (s *OrderService) Cancel(branchID string, orderID int64, reason, notes, actor string) error {
	nowMs := s.now().UnixMilli()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.loadActiveOrder(tx, branchID, orderID)
		if err != nil {
			return err
		}
		cancelled := entity.CancelledOrder{
			ActiveOrder:        *order,
			CancellationTime:   nowMs,
			CancellationReason: reason,
			CancellationNotes:  notes,
			CancelledBy:        actor,
		}
		cancelled.Status = entity.StatusCancelled

		data, err := json.Marshal(cancelled)
		if err != nil {
			return err
		}
		if err := s.Records.Set(tx, branchID, entity.ColCancelledOrders, recordID(orderID), data, nowMs); err != nil {
			return err
		}
		_, err = s.Records.Delete(tx, branchID, entity.ColActiveOrders, recordID(orderID))
		return err
	})
	if err != nil {
		return err
	}

	s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	s.Store.NotifyCollectionChanged(branchID, entity.ColCancelledOrders)
	return nil
}

// ConfirmPayment ปิดบิล: ย้ายไป CompletedOrder พร้อมรายละเอียดการจ่าย
// จุดที่เงินเข้าแล้ว — หลังจากนี้รายการถูก freeze แก้ได้เฉพาะ correction ที่ audit
func (s *OrderService) ConfirmPayment(branchID string, orderID int64, payment entity.PaymentDetails, actor string) (*entity.CompletedOrder, error) {
	nowMs := s.now().UnixMilli()
	var completed entity.CompletedOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.loadActiveOrder(tx, branchID, orderID)
		if err != nil {
			return err
		}
		completed = entity.CompletedOrder{
			ActiveOrder:    *order,
			CompletionTime: nowMs,
			PaymentDetails: payment,
			CompletedBy:    actor,
		}
		completed.Status = entity.StatusCompleted

		data, err := json.Marshal(completed)
		if err != nil {
			return err
		}
		if err := s.Records.Set(tx, branchID, entity.ColCompletedOrders, recordID(orderID), data, nowMs); err != nil {
			return err
		}
		_, err = s.Records.Delete(tx, branchID, entity.ColActiveOrders, recordID(orderID))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	s.Store.NotifyCollectionChanged(branchID, entity.ColCompletedOrders)
	return &completed, nil
}

// ---------------- History ----------------

func (s *OrderService) CompletedOrders(branchID string, includeDeleted bool) ([]entity.CompletedOrder, error) {
	return s.History.ListCompleted(branchID, includeDeleted)
}

func (s *OrderService) CancelledOrders(branchID string, includeDeleted bool) ([]entity.CancelledOrder, error) {
	return s.History.ListCancelled(branchID, includeDeleted)
}

// DeleteHistory: admin ลบจริง คนอื่น soft delete (ติดชื่อคนลบไว้)
func (s *OrderService) DeleteHistory(branchID string, completedIDs, cancelledIDs []int64, actor entity.User) error {
	hard := actor.Role == entity.RoleAdmin
	nowMs := s.now().UnixMilli()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range completedIDs {
			if hard {
				if err := s.History.HardDelete(tx, branchID, entity.DocLegacyCompletedOrders, entity.ColCompletedOrders, id); err != nil {
					return err
				}
			} else if err := s.History.SoftDelete(tx, branchID, entity.DocLegacyCompletedOrders, entity.ColCompletedOrders, id, actor.Username, nowMs); err != nil {
				return err
			}
		}
		for _, id := range cancelledIDs {
			if hard {
				if err := s.History.HardDelete(tx, branchID, entity.DocLegacyCancelledOrders, entity.ColCancelledOrders, id); err != nil {
					return err
				}
			} else if err := s.History.SoftDelete(tx, branchID, entity.DocLegacyCancelledOrders, entity.ColCancelledOrders, id, actor.Username, nowMs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(completedIDs) > 0 {
		s.Store.NotifyCollectionChanged(branchID, entity.ColCompletedOrders)
		s.Store.NotifyDocumentChanged(branchID, entity.DocLegacyCompletedOrders)
	}
	if len(cancelledIDs) > 0 {
		s.Store.NotifyCollectionChanged(branchID, entity.ColCancelledOrders)
		s.Store.NotifyDocumentChanged(branchID, entity.DocLegacyCancelledOrders)
	}
	return nil
}

// EditCompleted คือ administrative correction หลังปิดบิล — audit ด้วย editedBy
// record ที่ยังอยู่แค่รุ่นเก่าจะถูก migrate ขึ้น v2 ไปในตัว
func (s *OrderService) EditCompleted(branchID string, orderID int64, items []entity.OrderItem, payment *entity.PaymentDetails, actor string) error {
	all, err := s.History.ListCompleted(branchID, true)
	if err != nil {
		return err
	}
	var current *entity.CompletedOrder
	for i := range all {
		if all[i].ID == orderID {
			current = &all[i]
			break
		}
	}
	if current == nil {
		return ErrOrderNotFound
	}

	nowMs := s.now().UnixMilli()
	edited := *current
	if items != nil {
		edited.Items = items
		edited.TaxAmount = edited.Subtotal() * edited.TaxRate / 100
	}
	if payment != nil {
		edited.PaymentDetails = *payment
	}
	edited.EditedBy = actor
	edited.EditedAt = nowMs

	// เขียนทั้ง record ลง v2 — ถ้าเดิมอยู่แค่รุ่นเก่า นี่คือการ migrate
	if err := s.Store.AddRecord(branchID, entity.ColCompletedOrders, recordID(orderID), edited); err != nil {
		return err
	}
	return nil
}

// ---------------- Active set ----------------

// ActiveOrders คืนบิลที่ยังเปิดอยู่ — กรอง status ปลายทางออกกันเหนียว
func (s *OrderService) ActiveOrders(branchID string) ([]entity.ActiveOrder, error) {
	recs, err := s.Records.List(branchID, entity.ColActiveOrders)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ActiveOrder, 0, len(recs))
	for _, rec := range recs {
		var o entity.ActiveOrder
		if err := json.Unmarshal(rec.Data, &o); err != nil {
			continue
		}
		if o.Status.IsTerminal() {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// Reconcile เก็บกวาด ghost: active order ที่มี record ปลายทางแล้ว
// (ตายกลางคันระหว่างย้าย) — รันตอน start
func (s *OrderService) Reconcile(branchID string) (int, error) {
	terminal, err := s.History.TerminalIDs(branchID)
	if err != nil {
		return 0, err
	}
	orders, err := s.ActiveOrders(branchID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, o := range orders {
		if terminal[o.ID] {
			if _, err := s.Records.Delete(s.DB, branchID, entity.ColActiveOrders, o.RecordID()); err != nil {
				return removed, err
			}
			removed++
		}
	}
	if removed > 0 {
		s.Store.NotifyCollectionChanged(branchID, entity.ColActiveOrders)
	}
	return removed, nil
}

// ---------------- helpers ----------------

func (s *OrderService) loadActiveOrder(tx *gorm.DB, branchID string, orderID int64) (*entity.ActiveOrder, error) {
	rec, found, err := s.Records.Get(tx, branchID, entity.ColActiveOrders, recordID(orderID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	var o entity.ActiveOrder
	if err := json.Unmarshal(rec.Data, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) writeActiveOrder(tx *gorm.DB, branchID string, o *entity.ActiveOrder, stampedAt int64) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.Records.Set(tx, branchID, entity.ColActiveOrders, o.RecordID(), data, stampedAt)
}

// freeOrderID หา id ที่ยังว่างตั้งแต่ candidate ขึ้นไป
// เช็ครวมชุดปลายทางด้วย — id ที่ไปซ้ำกับบิลปิดแล้วจะโดน sweep ตอน start
func (s *OrderService) freeOrderID(tx *gorm.DB, branchID string, candidate int64) (int64, error) {
	cols := []string{entity.ColActiveOrders, entity.ColCompletedOrders, entity.ColCancelledOrders}
	for {
		taken := false
		for _, col := range cols {
			_, found, err := s.Records.Get(tx, branchID, col, recordID(candidate))
			if err != nil {
				return 0, err
			}
			if found {
				taken = true
				break
			}
		}
		if !taken {
			return candidate, nil
		}
		candidate++
	}
}

func (s *OrderService) tableDisplay(branchID string, tableID int) (string, string) {
	tables, err := s.Store.BranchTables(branchID)
	if err == nil {
		for _, t := range tables {
			if t.ID == tableID {
				return t.Name, t.Floor
			}
		}
	}
	return "Unknown", "-"
}

func recordID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func dedupInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, n := range in {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
