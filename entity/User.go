package entity

// User อยู่ใน global document "users" (ทั้งระบบ ไม่แยกสาขา)
// Password เก็บเป็น bcrypt hash
type User struct {
	ID               int    `json:"id"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	Role             string `json:"role"` // admin | branch-admin | pos | kitchen | auditor | table
	AllowedBranchIDs []int  `json:"allowedBranchIds,omitempty"`
	AssignedTableID  int    `json:"assignedTableId,omitempty"` // สำหรับ role "table" (ลูกค้าสั่งเอง)
}

const (
	RoleAdmin       = "admin"
	RoleBranchAdmin = "branch-admin"
	RolePOS         = "pos"
	RoleKitchen     = "kitchen"
	RoleAuditor     = "auditor"
	RoleTable       = "table"
)

// IsCustomerSession — session ของ tablet ข้างโต๊ะ ไม่ใช่พนักงาน
func (u User) IsCustomerSession() bool {
	return u.Role == RoleTable
}
