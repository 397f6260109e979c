package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/common"
)

const RequestIDHeader = "X-Request-ID"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			if id, err := common.NewULID(); err == nil {
				rid = id
			}
		}
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}
