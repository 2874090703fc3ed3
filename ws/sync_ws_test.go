package ws

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/middlewares"
	"github.com/Nhongkham198/POS-Sirimokol/services"
	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

var testDBSeq int64

func newSyncServer(t *testing.T) (*httptest.Server, *services.StoreService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := fmt.Sprintf("file:wstest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Document{}, &entity.Record{}))

	store := services.NewStoreService(db)
	hub := NewSyncHub(store)
	store.Notifier = hub
	go hub.Run()

	r := gin.New()
	r.GET("/ws/sync", middlewares.WSAuthMiddleware(testSecret), hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func dialSync(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateToken(&entity.User{Username: "pos", Role: entity.RolePOS}, testSecret, time.Hour)
	require.NoError(t, err)

	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/sync?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshotMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var snap snapshotMessage
	require.NoError(t, conn.ReadJSON(&snap))
	return snap
}

func TestSubscribeSendsImmediateSnapshot(t *testing.T) {
	srv, store := newSyncServer(t)
	// "tables" เป็น doc ราย branch — subscribe ด้วย branch เดียวกันต้องเจอ
	require.NoError(t, store.SetDocument("1", "tables", json.RawMessage(`[{"id":1,"name":"T1"}]`)))

	conn := dialSync(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "subscribe", "kind": "document", "name": "tables", "branchId": "1",
	}))

	snap := readSnapshot(t, conn)
	assert.Equal(t, "document", snap.Kind)
	assert.Equal(t, "tables", snap.Name)
	assert.True(t, snap.Exists)
	assert.JSONEq(t, `[{"id":1,"name":"T1"}]`, string(snap.Value))
}

func TestSubscribeMissingDocumentReportsNotExists(t *testing.T) {
	srv, _ := newSyncServer(t)

	conn := dialSync(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "subscribe", "kind": "document", "name": "qrCodeUrl", "branchId": "1",
	}))

	snap := readSnapshot(t, conn)
	assert.False(t, snap.Exists, "document ที่ยังไม่มีต้องบอกตรง ๆ ไม่ใช่เงียบ")
}

func TestWriteFansOutToSubscribers(t *testing.T) {
	srv, store := newSyncServer(t)

	conn := dialSync(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "subscribe", "kind": "collection", "name": "activeOrders", "branchId": "1",
	}))
	first := readSnapshot(t, conn)
	assert.Empty(t, first.Records)

	// เครื่องอื่นเขียน → เราต้องได้ snapshot ใหม่โดยไม่ต้องขอ
	require.NoError(t, store.AddRecord("1", "activeOrders", "100", map[string]any{"id": 100, "status": "waiting"}))

	second := readSnapshot(t, conn)
	require.Len(t, second.Records, 1)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(second.Records[0], &decoded))
	assert.Equal(t, "waiting", decoded["status"])
}

func TestFanOutReachesAllSubscribers(t *testing.T) {
	srv, store := newSyncServer(t)

	conns := []*websocket.Conn{dialSync(t, srv), dialSync(t, srv), dialSync(t, srv)}
	for _, conn := range conns {
		require.NoError(t, conn.WriteJSON(map[string]any{
			"action": "subscribe", "kind": "collection", "name": "staffCalls", "branchId": "1",
		}))
		first := readSnapshot(t, conn)
		assert.Empty(t, first.Records)
	}

	require.NoError(t, store.AddRecord("1", "staffCalls", "5", map[string]any{"id": 5, "tableId": 2}))

	// ทุก connection ต้องได้ snapshot ใหม่ของตัวเอง ไม่ต้องรอกัน
	for _, conn := range conns {
		snap := readSnapshot(t, conn)
		require.Len(t, snap.Records, 1)
	}
}

func TestGlobalDocumentIgnoresBranch(t *testing.T) {
	srv, store := newSyncServer(t)
	require.NoError(t, store.SetDocument("", "restaurantName", json.RawMessage(`"ศิริมงคล"`)))

	// subscribe ด้วย branchId ไหนก็ต้องเจอ global doc ตัวเดียวกัน
	conn := dialSync(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"action": "subscribe", "kind": "document", "name": "restaurantName", "branchId": "7",
	}))

	snap := readSnapshot(t, conn)
	assert.True(t, snap.Exists)
	assert.JSONEq(t, `"ศิริมงคล"`, string(snap.Value))
}

func TestRejectsMissingToken(t *testing.T) {
	srv, _ := newSyncServer(t)

	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/sync"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 401, res.StatusCode)
}
