package repository

import (
	"encoding/json"
	"errors"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository อ่าน/เขียนทะเบียนผู้ใช้จาก global document "users"
// (ผู้ใช้ทั้งระบบอยู่ใน document เดียว ตามรูปแบบ store เดิม)
type UserRepository struct {
	Docs *DocumentRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Docs: NewDocumentRepository(db)}
}

func (r *UserRepository) All() ([]entity.User, error) {
	doc, found, err := r.Docs.Get("", entity.DocUsers)
	if err != nil || !found {
		return nil, err
	}
	var users []entity.User
	if err := json.Unmarshal(doc.Value, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) FindByUsername(username string) (*entity.User, error) {
	users, err := r.All()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) SaveAll(users []entity.User) error {
	value, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.Docs.Set(r.Docs.DB, "", entity.DocUsers, value)
}
