package syncclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// เพดานขนาดต่อ document — ตรงกับฝั่ง server
const MaxValueBytes = 900 * 1024

var (
	// เขียนก่อนได้ snapshot แรก — ห้าม เพราะจะทับข้อมูลล่าสุดด้วย default เก่า
	ErrNotLive = errors.New("binding is not live yet")

	ErrNotConnected = errors.New("client is not connected")
)

// OversizeError — ค่าที่จะเขียนใหญ่เกินเพดาน; state ฝั่งเราอัปเดตแล้ว
// แต่ไม่ได้ส่งไป server (เครื่องอื่นจะไม่เห็น)
type OversizeError struct {
	Name string
	Size int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("value for %q is %d bytes, over the %d byte sync limit", e.Name, e.Size, MaxValueBytes)
}

// Snapshot คือ frame ที่ server ส่งมา — สถานะเต็มของ topic ณ ตอนนั้น
type Snapshot struct {
	Kind    string            `json:"kind"`
	Scope   string            `json:"scope"`
	Name    string            `json:"name"`
	Exists  bool              `json:"exists"`
	Value   json.RawMessage   `json:"value,omitempty"`
	Records []json.RawMessage `json:"records,omitempty"`
}

type topicKey struct {
	kind string
	name string
}

// Client ต่อกับ sync server หนึ่งตัว: อ่าน realtime ทาง WebSocket
// เขียนทาง HTTP API — แต่ละ binding มาเกาะ client ตัวเดียวกัน
type Client struct {
	BaseURL  string // เช่น "http://192.168.1.10:8000"
	Token    string
	BranchID string

	httpc *http.Client

	mu       sync.Mutex
	conn     *websocket.Conn
	writeMu  sync.Mutex
	handlers map[topicKey][]func(Snapshot)
}

func New(baseURL, token, branchID string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		BranchID: branchID,
		httpc:    &http.Client{Timeout: 15 * time.Second},
		handlers: make(map[topicKey][]func(Snapshot)),
	}
}

// Connect เปิด WebSocket แล้วเริ่มอ่าน — ต้องเรียกก่อน Subscribe
func (c *Client) Connect() error {
	wsURL := strings.Replace(c.BaseURL, "http", "ws", 1) + "/ws/sync?token=" + c.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var snap Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			return
		}
		c.dispatch(snap)
	}
}

func (c *Client) dispatch(snap Snapshot) {
	c.mu.Lock()
	handlers := append([]func(Snapshot){}, c.handlers[topicKey{snap.Kind, snap.Name}]...)
	c.mu.Unlock()
	for _, h := range handlers {
		h(snap)
	}
}

// Subscribe ขอฟัง topic — server จะส่ง snapshot แรกกลับมาทันที
func (c *Client) Subscribe(kind, name string, handler func(Snapshot)) error {
	c.mu.Lock()
	conn := c.conn
	c.handlers[topicKey{kind, name}] = append(c.handlers[topicKey{kind, name}], handler)
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	return c.send(conn, map[string]any{
		"action":   "subscribe",
		"kind":     kind,
		"name":     name,
		"branchId": c.BranchID,
	})
}

func (c *Client) send(conn *websocket.Conn, frame any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(frame)
}

// ---------------- HTTP writes ----------------

type apiEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// SetDocument เขียน value ทั้งก้อนลง document
func (c *Client) SetDocument(name string, value json.RawMessage) error {
	return c.do(http.MethodPut, "/docs/"+name, value)
}

// AddRecord เพิ่ม/ทับ record ทั้งตัวใน collection
func (c *Client) AddRecord(collection, id string, item any) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	body, err := json.Marshal(map[string]any{"id": id, "data": json.RawMessage(data)})
	if err != nil {
		return err
	}
	return c.do(http.MethodPost, "/collections/"+collection, body)
}

// UpdateRecord merge เฉพาะ field ที่ส่ง
func (c *Client) UpdateRecord(collection, id string, partial map[string]any) error {
	body, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	return c.do(http.MethodPatch, "/collections/"+collection+"/"+id, body)
}

func (c *Client) RemoveRecord(collection, id string) error {
	return c.do(http.MethodDelete, "/collections/"+collection+"/"+id, nil)
}

// Post ยิง endpoint อื่นใต้ branch (เช่น /orders/:id/split) — คืน data ดิบ
func (c *Client) Post(path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return c.request(http.MethodPost, path, payload)
}

func (c *Client) do(method, path string, body []byte) error {
	_, err := c.request(method, path, body)
	return err
}

func (c *Client) request(method, path string, body []byte) (json.RawMessage, error) {
	url := c.BaseURL + "/branches/" + c.BranchID + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("bad response (%d): %s", res.StatusCode, raw)
	}
	if !env.OK {
		return nil, fmt.Errorf("%s %s: %s", method, path, env.Error)
	}
	return env.Data, nil
}
