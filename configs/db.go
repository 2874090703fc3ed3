package configs

import (
	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {

	// Migrate the schema — store มีแค่สองตาราง ทุกอย่างอยู่ใน JSON value
	db.AutoMigrate(
		&entity.Document{},
		&entity.Record{},
	)
}
