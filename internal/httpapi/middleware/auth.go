package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/common"
	"github.com/suPer8Hu/helpdesk/internal/models"
)

const (
	UserIDKey = "auth.user_id"
	RoleKey   = "auth.role"
)

func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		claims, err := auth.ParseJWT(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40102, "invalid token")
			c.Abort()
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func Actor(c *gin.Context) (auth.Actor, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return auth.Actor{}, false
	}
	id, ok := v.(uint64)
	if !ok {
		return auth.Actor{}, false
	}
	r, ok := c.Get(RoleKey)
	if !ok {
		return auth.Actor{}, false
	}
	role, ok := r.(models.Role)
	if !ok {
		return auth.Actor{}, false
	}
	return auth.Actor{ID: id, Role: role}, true
}
