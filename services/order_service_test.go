package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBranch = "1"

func place(t *testing.T, svc *OrderService, items ...entity.OrderItem) *entity.ActiveOrder {
	t.Helper()
	order, err := svc.Place(testBranch, PlaceOrderInput{Items: items, TableID: 1, PlacedBy: "pos"})
	require.NoError(t, err)
	return order
}

func TestPlaceAssignsSequentialNumbers(t *testing.T) {
	svc, _, clock := newTestOrderService(t)

	first := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))
	clock.Advance(time.Minute)
	second := place(t, svc, testItem("b", "ต้มยำ", 120, 1))

	assert.Equal(t, 1, first.OrderNumber)
	assert.Equal(t, 2, second.OrderNumber)
	assert.Equal(t, entity.StatusWaiting, first.Status)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestPlaceSameMillisecondKeepsBothOrders(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	// สองเครื่องกดพร้อมกันใน ms เดียว — บิลแรกห้ามโดนทับ
	first := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))
	second := place(t, svc, testItem("b", "ต้มยำ", 120, 1))

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, first.OrderNumber)
	assert.Equal(t, 2, second.OrderNumber)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	require.Len(t, active, 2)
	carts := map[string]bool{}
	for _, o := range active {
		for _, it := range o.Items {
			carts[it.CartItemID] = true
		}
	}
	assert.True(t, carts["a"] && carts["b"], "ทั้งสองบิลต้องอยู่ครบพร้อมรายการของตัวเอง")
}

func TestPlaceResetsNumberAfterMidnight(t *testing.T) {
	svc, _, clock := newTestOrderService(t)

	before := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))
	clock.Set("2024-05-02T01:00:00Z")
	after := place(t, svc, testItem("b", "ต้มยำ", 120, 1))

	assert.Equal(t, 1, before.OrderNumber)
	assert.Equal(t, 1, after.OrderNumber, "ข้ามวันแล้วต้องเริ่มนับ 1 ใหม่")
}

func TestPlaceWithoutItems(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	_, err := svc.Place(testBranch, PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceTaxDisabledByDefault(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order := place(t, svc, testItem("a", "ข้าวผัด", 100, 2))

	assert.Zero(t, order.TaxAmount)
	assert.Equal(t, 200.0, order.Subtotal())
}

func TestPlaceComputesTaxWhenEnabled(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	require.NoError(t, store.SetDocument(testBranch, entity.DocIsTaxEnabled, json.RawMessage(`true`)))

	order := place(t, svc, testItem("a", "ข้าวผัด", 100, 1))

	assert.Equal(t, 7.0, order.TaxRate)
	assert.Equal(t, 7.0, order.TaxAmount)
}

func TestPlaceDeliveryOrder(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Place(testBranch, PlaceOrderInput{
		Items:            []entity.OrderItem{testItem("a", "ข้าวผัด", 60, 1)},
		IsDelivery:       true,
		DeliveryProvider: "Grab",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DeliveryTableID, order.TableID)
	assert.Equal(t, "Grab", order.TableName)
	assert.Equal(t, "delivery", order.OrderType)
}

func TestStartCookingIsIdempotent(t *testing.T) {
	svc, _, clock := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))

	require.NoError(t, svc.StartCooking(testBranch, order.ID))
	clock.Advance(time.Minute)
	require.NoError(t, svc.StartCooking(testBranch, order.ID), "กดซ้ำต้องไม่ error")

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, entity.StatusCooking, active[0].Status)
	assert.NotZero(t, active[0].CookingStartTime)
}

func TestTransitionOnFinalizedOrder(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	// บิลไม่มีอยู่ = โดนปิดไปแล้วจากเครื่องอื่น
	assert.ErrorIs(t, svc.StartCooking(testBranch, 999), ErrOrderNotFound)
	assert.ErrorIs(t, svc.MarkServed(testBranch, 999), ErrOrderNotFound)
	assert.ErrorIs(t, svc.MoveTable(testBranch, 999, 2), ErrOrderNotFound)
	assert.ErrorIs(t, svc.Cancel(testBranch, 999, "สั่งผิด", "", "pos"), ErrOrderNotFound)
	assert.ErrorIs(t, svc.UpdateItems(testBranch, 999, []entity.OrderItem{testItem("a", "ข้าวผัด", 60, 1)}, 1), ErrOrderNotFound)
}

func TestConfirmPaymentMovesOrderToHistory(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 2))

	completed, err := svc.ConfirmPayment(testBranch, order.ID, entity.PaymentDetails{
		Method: "cash", Received: 200, Change: 80,
	}, "pos")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, completed.Status)
	assert.Equal(t, "pos", completed.CompletedBy)
	assert.NotZero(t, completed.CompletionTime)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	assert.Empty(t, active, "บิลที่จ่ายแล้วต้องหายจาก active set")

	history, err := svc.CompletedOrders(testBranch, false)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
	assert.Equal(t, 200.0, history[0].PaymentDetails.Received)
}

func TestCancelRecordsReason(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))

	require.NoError(t, svc.Cancel(testBranch, order.ID, entity.CancelReasonCustomer, "ลูกค้ารีบ", "pos"))

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	assert.Empty(t, active)

	cancelled, err := svc.CancelledOrders(testBranch, false)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, entity.CancelReasonCustomer, cancelled[0].CancellationReason)
	assert.Equal(t, entity.StatusCancelled, cancelled[0].Status)
}

func TestSplitConservesQuantities(t *testing.T) {
	svc, _, clock := newTestOrderService(t)
	order := place(t, svc,
		testItem("a", "ข้าวผัด", 60, 3),
		testItem("b", "ต้มยำ", 120, 2))
	clock.Advance(time.Minute)

	child, err := svc.Split(testBranch, order.ID, []SplitItem{{CartItemID: "a", Quantity: 1}})
	require.NoError(t, err)

	assert.True(t, child.IsSplitChild)
	assert.Equal(t, order.OrderNumber, child.ParentOrderID)
	assert.Equal(t, 2, child.OrderNumber, "บิลแยกต้องได้เลขคิวใหม่")
	require.Len(t, child.Items, 1)
	assert.Equal(t, 1, child.Items[0].Quantity)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// ผลรวมจำนวนต่อเมนูของสองบิลต้องเท่าของเดิม
	total := map[string]int{}
	for _, o := range active {
		for _, it := range o.Items {
			total[it.CartItemID] += it.Quantity
		}
	}
	assert.Equal(t, map[string]int{"a": 3, "b": 2}, total)
}

func TestSplitSameMillisecondGetsFreshID(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 2))

	// ไม่ขยับนาฬิกา — id จาก timestamp จะชนบิลเดิม ต้องเลื่อนเอง
	child, err := svc.Split(testBranch, order.ID, []SplitItem{{CartItemID: "a", Quantity: 1}})
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, child.ID)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSplitDropsEmptiedLines(t *testing.T) {
	svc, _, clock := newTestOrderService(t)
	order := place(t, svc,
		testItem("a", "ข้าวผัด", 60, 2),
		testItem("b", "ต้มยำ", 120, 1))
	clock.Advance(time.Minute)

	_, err := svc.Split(testBranch, order.ID, []SplitItem{{CartItemID: "a", Quantity: 2}})
	require.NoError(t, err)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	for _, o := range active {
		if o.ID == order.ID {
			require.Len(t, o.Items, 1)
			assert.Equal(t, "b", o.Items[0].CartItemID, "บรรทัดที่แยกหมดต้องหายจากบิลเดิม")
		}
	}
}

func TestSplitRejectsBadSelection(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 2))

	_, err := svc.Split(testBranch, order.ID, []SplitItem{{CartItemID: "a", Quantity: 5}})
	assert.ErrorIs(t, err, ErrBadSplit)

	_, err = svc.Split(testBranch, order.ID, []SplitItem{{CartItemID: "missing", Quantity: 1}})
	assert.ErrorIs(t, err, ErrBadSplit)

	_, err = svc.Split(testBranch, order.ID, nil)
	assert.ErrorIs(t, err, ErrBadSplit)
}

func TestMergeCombinesOrders(t *testing.T) {
	svc, _, clock := newTestOrderService(t)
	target := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))
	clock.Advance(time.Minute)
	source := place(t, svc,
		testItem("a", "ข้าวผัด", 60, 2),
		testItem("c", "น้ำเปล่า", 15, 1))

	merged, err := svc.Merge(testBranch, target.ID, []int64{source.ID})
	require.NoError(t, err)

	// เมนูเดียวกัน (cartItemId ตรงกัน) ต้องบวกจำนวน ไม่ใช่เบิ้ลบรรทัด
	require.Len(t, merged.Items, 2)
	byCart := map[string]int{}
	for _, it := range merged.Items {
		byCart[it.CartItemID] = it.Quantity
	}
	assert.Equal(t, 3, byCart["a"])
	assert.Equal(t, 1, byCart["c"])
	assert.Equal(t, 2, merged.CustomerCount)
	assert.Equal(t, []int{source.OrderNumber}, merged.MergedOrderNumbers)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	require.Len(t, active, 1, "บิลต้นทางต้องหายไปหลัง merge")
	assert.Equal(t, target.ID, active[0].ID)
}

func TestMergeSkipsMissingSources(t *testing.T) {
	svc, _, clock := newTestOrderService(t)
	target := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))
	clock.Advance(time.Minute)
	source := place(t, svc, testItem("b", "ต้มยำ", 120, 1))

	merged, err := svc.Merge(testBranch, target.ID, []int64{source.ID, 424242})
	require.NoError(t, err, "ต้นทางที่โดนปิดไปแล้วต้องถูกข้าม ไม่ใช่ล้มทั้ง merge")
	assert.Len(t, merged.Items, 2)

	_, err = svc.Merge(testBranch, target.ID, []int64{424242})
	assert.ErrorIs(t, err, ErrNoSourceOrders)
}

func TestUpdateItemsRecomputesTax(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	require.NoError(t, store.SetDocument(testBranch, entity.DocIsTaxEnabled, json.RawMessage(`true`)))
	order := place(t, svc, testItem("a", "ข้าวผัด", 100, 1))
	require.Equal(t, 7.0, order.TaxAmount)

	err := svc.UpdateItems(testBranch, order.ID, []entity.OrderItem{testItem("a", "ข้าวผัด", 100, 3)}, 2)
	require.NoError(t, err)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 21.0, active[0].TaxAmount)
	assert.Equal(t, 2, active[0].CustomerCount)
}

func TestDeleteHistorySoftThenHard(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))
	_, err := svc.ConfirmPayment(testBranch, order.ID, entity.PaymentDetails{Method: "cash"}, "pos")
	require.NoError(t, err)

	// role อื่น = soft delete: ซ่อนจาก history ปกติ แต่ auditor ยังเห็น
	pos := entity.User{Username: "pos", Role: entity.RolePOS}
	require.NoError(t, svc.DeleteHistory(testBranch, []int64{order.ID}, nil, pos))

	visible, err := svc.CompletedOrders(testBranch, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	audited, err := svc.CompletedOrders(testBranch, true)
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.True(t, audited[0].IsDeleted)
	assert.Equal(t, "pos", audited[0].DeletedBy)

	// admin = ลบจริง
	admin := entity.User{Username: "admin", Role: entity.RoleAdmin}
	require.NoError(t, svc.DeleteHistory(testBranch, []int64{order.ID}, nil, admin))

	audited, err = svc.CompletedOrders(testBranch, true)
	require.NoError(t, err)
	assert.Empty(t, audited)
}

func TestEditCompletedMigratesLegacyRecord(t *testing.T) {
	svc, store, _ := newTestOrderService(t)

	// บิลที่อยู่แค่รุ่นเก่า (array document)
	legacy := []entity.CompletedOrder{{
		ActiveOrder: entity.ActiveOrder{
			ID:     777,
			Items:  []entity.OrderItem{testItem("a", "ข้าวผัด", 60, 1)},
			Status: entity.StatusCompleted,
		},
		CompletionTime: 1714550000000,
	}}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, store.SetDocument(testBranch, entity.DocLegacyCompletedOrders, raw))

	err = svc.EditCompleted(testBranch, 777, []entity.OrderItem{testItem("a", "ข้าวผัด", 60, 2)}, nil, "admin")
	require.NoError(t, err)

	history, err := svc.CompletedOrders(testBranch, false)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "admin", history[0].EditedBy, "แก้แล้วต้องถูกยกขึ้นรุ่นใหม่พร้อม audit trail")
	assert.Equal(t, 2, history[0].Items[0].Quantity)
}

func TestReconcileSweepsGhostOrders(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := place(t, svc, testItem("a", "ข้าวผัด", 60, 1))

	// จำลอง crash กลางคัน: record ปลายทางเขียนแล้ว แต่ active ยังไม่ถูกลบ
	ghost := entity.CompletedOrder{ActiveOrder: *order, CompletionTime: 1}
	ghost.Status = entity.StatusCompleted
	data, err := json.Marshal(ghost)
	require.NoError(t, err)
	require.NoError(t, svc.Records.Set(svc.DB, testBranch, entity.ColCompletedOrders, order.RecordID(), data, 1))

	removed, err := svc.Reconcile(testBranch)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	active, err := svc.ActiveOrders(testBranch)
	require.NoError(t, err)
	assert.Empty(t, active)

	// รันซ้ำต้องไม่เจออะไรแล้ว
	removed, err = svc.Reconcile(testBranch)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
