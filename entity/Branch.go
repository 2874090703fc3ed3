package entity

// Branch คือสาขา — ขอบเขตของข้อมูลเกือบทั้งหมด
type Branch struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}
