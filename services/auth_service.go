package services

import (
	"strings"
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/repository"
	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService จัดการ login และทะเบียนผู้ใช้ (ผู้ใช้ทั้งระบบอยู่ใน
// global document "users" — admin เพิ่ม/ลบผ่าน document API เหมือน config อื่น)
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

// Login ตรวจรหัสผ่านแล้วออก JWT — error เดียวไม่ว่าผิดชื่อหรือผิดรหัส
func (s *AuthService) Login(username, password string) (string, *entity.User, error) {
	username = strings.TrimSpace(username)
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return "", nil, ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidLogin
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, err
	}

	user.Password = "" // ไม่ส่ง hash กลับ
	return token, user, nil
}

// SetPassword เปลี่ยนรหัสผ่านของ user ในทะเบียน (admin เรียก)
func (s *AuthService) SetPassword(username, newPassword string) error {
	users, err := s.userRepo.All()
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == username {
			users[i].Password = string(hashed)
			return s.userRepo.SaveAll(users)
		}
	}
	return repository.ErrUserNotFound
}
