package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub/pkg/response"
)

const (
	headerRequestID = "X-Request-ID"
	requestIDKey    = response.RequestIDKey
	requestIDMaxLen = 64
)

// RequestID 沿用上游网关的 X-Request-ID，缺失或不合规时生成 UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(headerRequestID, rid)
		c.Next()
	}
}

// validRequestID 只接受字母数字与 -_.:，避免换行等字符写进日志
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		switch ch := rid[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}
