package utils

import "github.com/gin-gonic/gin"

func CurrentUsername(c *gin.Context) string {
	if v, ok := c.Get("username"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func CurrentRole(c *gin.Context) string {
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// CurrentTableID — โต๊ะของ session ลูกค้า (role "table"), 0 ถ้าไม่ใช่
func CurrentTableID(c *gin.Context) int {
	v, _ := c.Get("tableId")
	switch id := v.(type) {
	case int:
		return id
	case int64:
		return int(id)
	case float64:
		return int(id)
	default:
		return 0
	}
}
