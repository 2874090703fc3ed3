package entity

// ชื่อ document / collection ที่ระบบใช้ร่วมกันทั้ง server และ client binding

const (
	DocUsers             = "users"
	DocBranches          = "branches"
	DocMenuItems         = "menuItems"
	DocCategories        = "categories"
	DocTables            = "tables"
	DocFloors            = "floors"
	DocOrderCounter      = "orderCounter"
	DocStaffCalls        = "staffCalls"
	DocIsTaxEnabled      = "isTaxEnabled"
	DocTaxRate           = "taxRate"
	DocDeliveryProviders = "deliveryProviders"

	// legacy generation: array ทั้งก้อนใน document เดียว
	DocLegacyCompletedOrders = "completedOrders"
	DocLegacyCancelledOrders = "cancelledOrders"

	ColActiveOrders    = "activeOrders"
	ColCompletedOrders = "completedOrders_v2"
	ColCancelledOrders = "cancelledOrders_v2"
)

// globalDocNames คือชื่อที่ไม่ผูกกับสาขา — ต้องอ่านได้ก่อนเลือกสาขา
var globalDocNames = map[string]bool{
	"users":                true,
	"branches":             true,
	"leaveRequests":        true,
	"appLogoUrl":           true,
	"logoUrl":              true,
	"restaurantName":       true,
	"restaurantAddress":    true,
	"restaurantPhone":      true,
	"taxId":                true,
	"qrCodeUrl":            true,
	"signatureUrl":         true,
	"notificationSoundUrl": true,
	"staffCallSoundUrl":    true,
}

func IsGlobalDoc(name string) bool {
	return globalDocNames[name]
}

// DocScope คืน scope ที่ใช้เก็บจริง: global names จะไม่สน branch
func DocScope(name, branchID string) string {
	if IsGlobalDoc(name) {
		return ""
	}
	return branchID
}
