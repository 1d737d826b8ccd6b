package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ServiceAuth 服务间调用鉴权。
// 设置了 API_KEY 时校验 X-Api-Key 头，没设置则放行（本地开发）
func ServiceAuth() gin.HandlerFunc {
	key := os.Getenv("API_KEY")
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-Api-Key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid api key"})
			return
		}
		c.Next()
	}
}
