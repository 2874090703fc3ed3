package services

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifierSpy struct {
	docs        []string
	collections []string
}

func (n *notifierSpy) DocumentChanged(scope, name string)         { n.docs = append(n.docs, scope+"/"+name) }
func (n *notifierSpy) CollectionChanged(scope, collection string) { n.collections = append(n.collections, scope+"/"+collection) }

func TestSetDocumentRoundTrip(t *testing.T) {
	store := NewStoreService(newTestDB(t))
	spy := &notifierSpy{}
	store.Notifier = spy

	require.NoError(t, store.SetDocument("1", "restaurantPhone", json.RawMessage(`"02-123-4567"`)))

	value, found, err := store.GetDocument("1", "restaurantPhone")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `"02-123-4567"`, string(value))
	assert.Equal(t, []string{"1/restaurantPhone"}, spy.docs)
}

func TestGetDocumentMissing(t *testing.T) {
	store := NewStoreService(newTestDB(t))

	_, found, err := store.GetDocument("1", "nothing")
	require.NoError(t, err)
	assert.False(t, found, "document ที่ยังไม่มีไม่ใช่ error")
}

func TestSetDocumentRejectsOversizeValue(t *testing.T) {
	store := NewStoreService(newTestDB(t))

	big := append([]byte(`"`), bytes.Repeat([]byte("x"), MaxDocumentBytes)...)
	big = append(big, '"')
	err := store.SetDocument("1", "menuItems", big)

	var oversize *OversizeError
	require.ErrorAs(t, err, &oversize)
	assert.Equal(t, "menuItems", oversize.Name)

	_, found, err := store.GetDocument("1", "menuItems")
	require.NoError(t, err)
	assert.False(t, found, "ค่าที่เกินเพดานต้องไม่ถูกเขียนเลย")
}

func TestUpdateRecordStampsServerTimestamp(t *testing.T) {
	db := newTestDB(t)
	store := NewStoreService(db)
	clock := newTestClock("2024-05-01T10:00:00Z")
	store.now = clock.Now

	require.NoError(t, store.AddRecord("1", "activeOrders", "100", map[string]any{"id": 100, "status": "waiting"}))

	clock.Set("2024-05-01T10:05:00Z")
	require.NoError(t, store.UpdateRecord("1", "activeOrders", "100", map[string]any{"status": "cooking"}))

	records, err := store.ListRecords("1", "activeOrders")
	require.NoError(t, err)
	require.Len(t, records, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(records[0], &decoded))
	assert.Equal(t, "cooking", decoded["status"])
	assert.Equal(t, float64(clock.Now().UnixMilli()), decoded["lastUpdated"],
		"lastUpdated ต้องเป็นเวลา server ไม่ใช่ของ client")
}

func TestUpdateRecordMissing(t *testing.T) {
	store := NewStoreService(newTestDB(t))

	err := store.UpdateRecord("1", "activeOrders", "999", map[string]any{"status": "cooking"})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	err = store.RemoveRecord("1", "activeOrders", "999")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestBranchTablesDedupsById(t *testing.T) {
	store := NewStoreService(newTestDB(t))
	tables := `[
		{"id":1,"name":"T1","floor":"ชั้น 1"},
		{"id":2,"name":"T2","floor":"ชั้น 1"},
		{"id":1,"name":"T1 ซ้ำ","floor":"ชั้น 2"}
	]`
	require.NoError(t, store.SetDocument("1", entity.DocTables, json.RawMessage(tables)))

	got, err := store.BranchTables("1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].Name, "id ซ้ำต้องเอาตัวแรก")
	assert.Equal(t, "T2", got[1].Name)
}

func TestBranchTaxDefaults(t *testing.T) {
	store := NewStoreService(newTestDB(t))

	enabled, rate := store.BranchTax("1")
	assert.False(t, enabled)
	assert.Equal(t, 7.0, rate)
}

func TestScopedCollectionsAreIsolated(t *testing.T) {
	store := NewStoreService(newTestDB(t))

	require.NoError(t, store.AddRecord("1", "activeOrders", "1", map[string]any{"id": 1}))
	require.NoError(t, store.AddRecord("2", "activeOrders", "2", map[string]any{"id": 2}))

	one, err := store.ListRecords("1", "activeOrders")
	require.NoError(t, err)
	assert.Len(t, one, 1, "ข้อมูลของสาขาอื่นต้องไม่ปน")
}
