package services

import (
	"encoding/json"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
)

// NextOrderNumber คำนวณเลขคิวถัดไป:
// ข้ามวันแล้ว → เริ่มนับ 1 ใหม่, วันเดิม → count + 1
func NextOrderNumber(c entity.OrderCounter, today string) (int, entity.OrderCounter) {
	next := 1
	if c.LastResetDate == today {
		next = c.Count + 1
	}
	return next, entity.OrderCounter{Count: next, LastResetDate: today}
}

// DecodeCounter อ่าน counter จาก JSON ดิบ พร้อมซ่อม lastResetDate ที่เก็บมา
// ผิดรูป: รับได้ทั้ง string "YYYY-MM-DD" และ epoch millis (ข้อมูลรุ่นเก่า)
func DecodeCounter(raw json.RawMessage) (entity.OrderCounter, bool) {
	var probe struct {
		Count         *int            `json:"count"`
		LastResetDate json.RawMessage `json:"lastResetDate"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Count == nil {
		return entity.OrderCounter{}, false
	}

	c := entity.OrderCounter{Count: *probe.Count}

	var asString string
	if err := json.Unmarshal(probe.LastResetDate, &asString); err == nil {
		c.LastResetDate = asString
		return c, true
	}
	var asMillis int64
	if err := json.Unmarshal(probe.LastResetDate, &asMillis); err == nil {
		c.LastResetDate = time.UnixMilli(asMillis).Format("2006-01-02")
		return c, true
	}
	return entity.OrderCounter{}, false
}
