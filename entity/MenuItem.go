package entity

// MenuItem คือรายการใน catalog (document "menuItems")
type MenuItem struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Price        float64       `json:"price"`
	Category     string        `json:"category"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	IsAvailable  bool          `json:"isAvailable"`
	OptionGroups []OptionGroup `json:"optionGroups,omitempty"`
}

type OptionGroup struct {
	Name    string         `json:"name"`
	Choices []OptionChoice `json:"choices"`
}

type OptionChoice struct {
	Label      string  `json:"label"`
	PriceDelta float64 `json:"priceDelta,omitempty"`
}
