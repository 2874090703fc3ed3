package utils

import (
	"time"

	"github.com/Nhongkham198/POS-Sirimokol/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims เป็น custom JWT claims ที่เราจะใช้ในระบบ
type Claims struct {
	Username         string `json:"username"`
	Role             string `json:"role"`
	AllowedBranchIDs []int  `json:"allowedBranchIds,omitempty"`
	AssignedTableID  int    `json:"assignedTableId,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken สร้าง JWT สำหรับผู้ใช้
func GenerateToken(user *entity.User, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username:         user.Username,
		Role:             user.Role,
		AllowedBranchIDs: user.AllowedBranchIDs,
		AssignedTableID:  user.AssignedTableID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)), // อายุ token
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
