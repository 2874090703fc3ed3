package syncclient

import (
	"encoding/json"
	"time"
)

// NormalizeTables ตัดโต๊ะ id ซ้ำทิ้ง (ตัวแรกชนะ) — ข้อมูลเก่าบางชุด
// มีรายการซ้ำจากบั๊กตอน import แล้วทำให้ UI วาดโต๊ะเบิ้ล
func NormalizeTables(raw json.RawMessage) json.RawMessage {
	var tables []map[string]any
	if err := json.Unmarshal(raw, &tables); err != nil {
		return raw
	}

	seen := make(map[float64]bool, len(tables))
	out := make([]map[string]any, 0, len(tables))
	changed := false
	for _, t := range tables {
		id, ok := t["id"].(float64)
		if !ok {
			out = append(out, t)
			continue
		}
		if seen[id] {
			changed = true
			continue
		}
		seen[id] = true
		out = append(out, t)
	}
	if !changed {
		return raw
	}
	fixed, err := json.Marshal(out)
	if err != nil {
		return raw
	}
	return fixed
}

// NormalizeOrderCounter ซ่อม lastResetDate ที่ข้อมูลรุ่นเก่าเก็บเป็น
// epoch millis — แปลงเป็น "YYYY-MM-DD" ให้เทียบวันได้ตรง ๆ
func NormalizeOrderCounter(raw json.RawMessage) json.RawMessage {
	var probe struct {
		Count         *int            `json:"count"`
		LastResetDate json.RawMessage `json:"lastResetDate"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Count == nil {
		return raw
	}

	var millis int64
	if err := json.Unmarshal(probe.LastResetDate, &millis); err != nil {
		return raw // เป็น string อยู่แล้ว
	}

	fixed, err := json.Marshal(map[string]any{
		"count":         *probe.Count,
		"lastResetDate": time.UnixMilli(millis).Format("2006-01-02"),
	})
	if err != nil {
		return raw
	}
	return fixed
}
