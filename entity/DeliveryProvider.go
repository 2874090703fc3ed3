package entity

// DeliveryProvider เช่น LineMan, GrabFood (document "deliveryProviders")
type DeliveryProvider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IconURL   string `json:"iconUrl,omitempty"`
	Color     string `json:"color,omitempty"`
	IsEnabled bool   `json:"isEnabled"`
	IsDefault bool   `json:"isDefault,omitempty"`
}
