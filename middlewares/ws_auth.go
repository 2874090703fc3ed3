// middlewares/ws_auth.go
package middlewares

import (
	"net/http"
	"strings"

	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// WSAuthMiddleware ใช้ตรวจสอบ JWT จากทั้ง query และ header
// (browser WebSocket ใส่ header เองไม่ได้ เลยต้องรับ ?token= ด้วย)
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) ลองอ่านจาก query ก่อน
		if t := c.Query("token"); t != "" {
			tokenStr = t
		} else {
			// 2) ถ้าไม่มี ลองอ่านจาก Header
			h := c.GetHeader("Authorization")
			if h != "" && strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		// 3) Parse JWT
		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4) เก็บ username, role ลง context
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("tableId", claims.AssignedTableID)
		c.Set("claims", claims)

		c.Next()
	}
}
