// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuthGate 创建一个共享口令门禁中间件：只比对 Basic 凭证的口令部分，
// 用户名不参与校验。配置的口令以 "$2" 开头时按 bcrypt 哈希比对，
// 否则做常数时间的明文比对。configured 为空则完全关闭门禁。
func BasicAuthGate(configured string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configured == "" {
			c.Next()
			return
		}

		_, password, ok := c.Request.BasicAuth()
		if !ok || !passwordMatches(configured, password) {
			c.Header("WWW-Authenticate", `Basic realm="minutes-qa"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func passwordMatches(configured, given string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(given)) == 1
}
