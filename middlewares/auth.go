package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Nhongkham198/POS-Sirimokol/configs"
	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ใช้ตรวจ token และ (ถ้ามี) บังคับ role
func AuthMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort(); return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		cfg := configs.LoadConfig()
		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort(); return
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("tableId", claims.AssignedTableID)
		c.Set("claims", claims)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if claims.Role == r { allowed = true; break }
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				c.Abort(); return
			}
		}

		c.Next()
	}
}
