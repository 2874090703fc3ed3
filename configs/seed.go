package configs

import (
	"encoding/json"
	"log"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/repository"

	"golang.org/x/crypto/bcrypt"
)

// SeedStore ใส่ข้อมูลเริ่มต้นให้ร้านเปิดได้ทันที — เขียนเฉพาะ document ที่ยังไม่มี
func SeedStore() error {
	docs := repository.NewDocumentRepository(DB())

	if err := seedUsers(docs); err != nil {
		return err
	}

	if err := seedDocIfMissing(docs, "", entity.DocBranches, []entity.Branch{
		{ID: 1, Name: "สาขาหลัก", Location: "สำนักงานใหญ่"},
	}); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, "", "restaurantName", "ร้านอาหารศิริมงคล"); err != nil {
		return err
	}

	// ผังเริ่มต้นของสาขา 1: สองชั้น หกโต๊ะ
	branch := "1"
	if err := seedDocIfMissing(docs, branch, entity.DocFloors, []string{"ชั้น 1", "ชั้น 2"}); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, branch, entity.DocTables, []entity.Table{
		{ID: 1, Name: "T1", Floor: "ชั้น 1"},
		{ID: 2, Name: "T2", Floor: "ชั้น 1"},
		{ID: 3, Name: "T3", Floor: "ชั้น 1"},
		{ID: 4, Name: "T4", Floor: "ชั้น 1"},
		{ID: 5, Name: "T5", Floor: "ชั้น 2"},
		{ID: 6, Name: "T6", Floor: "ชั้น 2"},
	}); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, branch, entity.DocDeliveryProviders, []entity.DeliveryProvider{
		{ID: "grab", Name: "Grab", Color: "#00b14f", IsEnabled: true, IsDefault: true},
		{ID: "lineman", Name: "LINE MAN", Color: "#06c755", IsEnabled: true},
		{ID: "shopeefood", Name: "ShopeeFood", Color: "#ee4d2d", IsEnabled: true},
	}); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, branch, entity.DocCategories, []string{"จานหลัก", "เครื่องดื่ม"}); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, branch, entity.DocMenuItems, []entity.MenuItem{
		{ID: 1, Name: "ข้าวผัดหมู", Price: 60, Category: "จานหลัก", IsAvailable: true},
		{ID: 2, Name: "กะเพราไก่ไข่ดาว", Price: 65, Category: "จานหลัก", IsAvailable: true,
			OptionGroups: []entity.OptionGroup{{
				Name: "ระดับความเผ็ด",
				Choices: []entity.OptionChoice{{Label: "ปกติ"}, {Label: "เผ็ดมาก"}},
			}}},
		{ID: 3, Name: "น้ำเปล่า", Price: 15, Category: "เครื่องดื่ม", IsAvailable: true},
	}); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, branch, entity.DocIsTaxEnabled, false); err != nil {
		return err
	}
	if err := seedDocIfMissing(docs, branch, entity.DocTaxRate, 7.0); err != nil {
		return err
	}

	log.Println("✅ Store seeded")
	return nil
}

// สร้างผู้ใช้ชุดแรก — รหัสผ่าน default ควรเปลี่ยนทันทีหลังติดตั้ง
func seedUsers(docs *repository.DocumentRepository) error {
	_, found, err := docs.Get("", entity.DocUsers)
	if err != nil {
		return err
	}
	if found {
		log.Println("ℹ️ users already seeded")
		return nil
	}

	pass := getEnv("ADMIN_PASSWORD", "1234")
	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)

	users := []entity.User{
		{ID: 1, Username: "admin", Password: string(hash), Role: entity.RoleAdmin},
		{ID: 2, Username: "manager", Password: string(hash), Role: entity.RoleBranchAdmin, AllowedBranchIDs: []int{1}},
		{ID: 3, Username: "pos", Password: string(hash), Role: entity.RolePOS, AllowedBranchIDs: []int{1}},
		{ID: 4, Username: "kitchen", Password: string(hash), Role: entity.RoleKitchen, AllowedBranchIDs: []int{1}},
		{ID: 5, Username: "auditor", Password: string(hash), Role: entity.RoleAuditor, AllowedBranchIDs: []int{1}},
	}
	return seedDocIfMissing(docs, "", entity.DocUsers, users)
}

func seedDocIfMissing(docs *repository.DocumentRepository, scope, name string, value any) error {
	_, found, err := docs.Get(scope, name)
	if err != nil || found {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return docs.Set(docs.DB, scope, name, data)
}
