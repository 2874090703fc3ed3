package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Topic ระบุสิ่งที่ client subscribe อยู่ — document หรือ collection หนึ่งชิ้น
type Topic struct {
	Kind  string // "document" | "collection"
	Scope string // "" = global
	Name  string
}

// คิวต่อ connection — เต็มแปลว่า client อ่านไม่ทัน ตัดทิ้งให้ต่อใหม่
const sendQueueSize = 32

// subscriber = connection หนึ่ง พร้อมคิวขาออกของตัวเอง
// writer แยกเป็น goroutine ต่อ connection — เครื่องช้าเครื่องเดียว
// ต้องไม่หน่วง fan-out ของคนอื่น
type subscriber struct {
	conn *websocket.Conn
	send chan snapshotMessage
}

type subscription struct {
	sub   *subscriber
	topic Topic
}

// SyncHub คือศูนย์กลาง realtime sync: ทุก commit ที่ store จะถูก fan-out
// เป็น snapshot เต็มก้อนให้ทุก client ที่ subscribe topic นั้น
// ส่งเต็มก้อนเสมอ ไม่ทำ diff — client แค่เอาทับของเดิม ง่ายและพลาดยาก
// state ทั้งหมดแตะจากใน Run เท่านั้น
type SyncHub struct {
	clients     map[Topic]map[*subscriber]bool
	topics      map[*subscriber]map[Topic]bool // กวาดตอน disconnect
	attach      chan *subscriber
	register    chan subscription
	unsubscribe chan subscription
	unregister  chan *subscriber
	broadcast   chan Topic
	store       *services.StoreService
}

func NewSyncHub(store *services.StoreService) *SyncHub {
	return &SyncHub{
		clients:     make(map[Topic]map[*subscriber]bool),
		topics:      make(map[*subscriber]map[Topic]bool),
		attach:      make(chan *subscriber),
		register:    make(chan subscription),
		unsubscribe: make(chan subscription),
		unregister:  make(chan *subscriber),
		broadcast:   make(chan Topic, 64),
		store:       store,
	}
}

// StoreService เรียกสองตัวนี้หลัง commit (ผ่าน ChangeNotifier interface)
func (h *SyncHub) DocumentChanged(scope, name string) {
	h.broadcast <- Topic{Kind: "document", Scope: scope, Name: name}
}

func (h *SyncHub) CollectionChanged(scope, collection string) {
	h.broadcast <- Topic{Kind: "collection", Scope: scope, Name: collection}
}

// คอยฟัง attach/register/unregister/broadcast ตลอดเวลา — เจ้าของ map ทุกตัว
func (h *SyncHub) Run() {
	for {
		select {
		case sub := <-h.attach:
			h.topics[sub] = make(map[Topic]bool)

		// client ขอ subscribe → ส่ง snapshot แรกให้ทันที (นับเป็น "live" ตั้งแต่นั้น)
		case s := <-h.register:
			if _, live := h.topics[s.sub]; !live {
				continue
			}
			if h.clients[s.topic] == nil {
				h.clients[s.topic] = make(map[*subscriber]bool)
			}
			h.clients[s.topic][s.sub] = true
			h.topics[s.sub][s.topic] = true
			if msg, ok := h.buildSnapshot(s.topic); ok {
				h.enqueue(s.sub, msg)
			}

		case s := <-h.unsubscribe:
			delete(h.clients[s.topic], s.sub)
			delete(h.topics[s.sub], s.topic)

		case sub := <-h.unregister:
			h.drop(sub)

		// store commit → snapshot ใหม่ให้ทุกคนใน topic (อ่านจาก DB ครั้งเดียว)
		case topic := <-h.broadcast:
			if len(h.clients[topic]) == 0 {
				continue
			}
			msg, ok := h.buildSnapshot(topic)
			if !ok {
				continue
			}
			for sub := range h.clients[topic] {
				h.enqueue(sub, msg)
			}
		}
	}
}

// enqueue ห้าม block — Run ต้องวิ่งต่อได้เสมอ คิวเต็มคือ client มีปัญหา
func (h *SyncHub) enqueue(sub *subscriber, msg snapshotMessage) {
	select {
	case sub.send <- msg:
	default:
		log.Printf("ws send queue full, dropping slow subscriber")
		h.drop(sub)
	}
}

// drop ถอด subscriber ออกจากทุก topic — idempotent, เรียกได้จากใน Run เท่านั้น
func (h *SyncHub) drop(sub *subscriber) {
	if _, live := h.topics[sub]; !live {
		return
	}
	for topic := range h.topics[sub] {
		delete(h.clients[topic], sub)
	}
	delete(h.topics, sub)
	close(sub.send)
}

// snapshotMessage คือ frame เดียวที่ server ส่งออก — สถานะเต็มของ topic
type snapshotMessage struct {
	Kind    string            `json:"kind"`
	Scope   string            `json:"scope"`
	Name    string            `json:"name"`
	Exists  bool              `json:"exists"`            // document เท่านั้น
	Value   json.RawMessage   `json:"value,omitempty"`   // document
	Records []json.RawMessage `json:"records,omitempty"` // collection
}

func (h *SyncHub) buildSnapshot(topic Topic) (snapshotMessage, bool) {
	msg := snapshotMessage{Kind: topic.Kind, Scope: topic.Scope, Name: topic.Name}

	switch topic.Kind {
	case "document":
		value, found, err := h.store.GetDocument(topic.Scope, topic.Name)
		if err != nil {
			log.Printf("ws snapshot read error: %v", err)
			return msg, false
		}
		msg.Exists = found
		msg.Value = value
	case "collection":
		records, err := h.store.ListRecords(topic.Scope, topic.Name)
		if err != nil {
			log.Printf("ws snapshot read error: %v", err)
			return msg, false
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		msg.Exists = true
		msg.Records = records
	default:
		return msg, false
	}
	return msg, true
}

// writePump เป็น writer เดียวของ connection — gorilla อนุญาต writer เดียว ณ เวลาหนึ่ง
// จบเมื่อ hub ปิดคิว (drop) หรือเขียนไม่ผ่าน
func (s *subscriber) writePump() {
	defer s.conn.Close()
	for msg := range s.send {
		if err := s.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/sync (token ผ่าน WSAuthMiddleware แล้ว)
func (h *SyncHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan snapshotMessage, sendQueueSize)}
	h.attach <- sub
	go sub.writePump()
	go h.listenRequests(sub)
}

// clientRequest คือ frame ที่ client ส่งมา — จัดการแค่ subscribe/unsubscribe
// การเขียนทั้งหมดไปทาง HTTP API ไม่ใช่ทาง socket
type clientRequest struct {
	Action   string `json:"action"` // "subscribe" | "unsubscribe"
	Kind     string `json:"kind"`   // "document" | "collection"
	Name     string `json:"name"`
	BranchID string `json:"branchId"`
}

func (h *SyncHub) listenRequests(sub *subscriber) {
	defer func() { h.unregister <- sub }()

	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			break
		}

		var req clientRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("invalid ws payload: %v", err)
			continue
		}
		if req.Name == "" || (req.Kind != "document" && req.Kind != "collection") {
			continue
		}

		topic := Topic{Kind: req.Kind, Name: req.Name, Scope: req.BranchID}
		if req.Kind == "document" {
			topic.Scope = entity.DocScope(req.Name, req.BranchID)
		}

		switch req.Action {
		case "subscribe":
			h.register <- subscription{sub: sub, topic: topic}
		case "unsubscribe":
			h.unsubscribe <- subscription{sub: sub, topic: topic}
		}
	}
}
