package entity

// Table คือโต๊ะจริงในร้าน อยู่ใน document "tables" (array ทั้งสาขา)
type Table struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Floor       string       `json:"floor"`
	ActivePin   *string      `json:"activePin"`
	Reservation *Reservation `json:"reservation"`
}

type Reservation struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Time  string `json:"time,omitempty"`
}
