package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/common"
	"github.com/suPer8Hu/helpdesk/internal/config"
	"github.com/suPer8Hu/helpdesk/internal/conversation"
	"github.com/suPer8Hu/helpdesk/internal/httpapi/middleware"
	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/ticket"
)

type Handler struct {
	DB      *gorm.DB
	Cfg     config.Config
	Engine  *conversation.Engine
	Tickets *ticket.Service
}

func NewHandler(db *gorm.DB, cfg config.Config, engine *conversation.Engine, tickets *ticket.Service) *Handler {
	return &Handler{DB: db, Cfg: cfg, Engine: engine, Tickets: tickets}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// actor pulls the authenticated identity out of the request context.
func (h *Handler) actor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
	}
	return actor, ok
}

// currentUser loads the full account row for the authenticated identity.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return nil, false
	}
	var user models.User
	if err := h.DB.First(&user, actor.ID).Error; err != nil {
		common.Fail(c, http.StatusUnauthorized, 40103, "account not found")
		return nil, false
	}
	return &user, true
}

// Complaint-facing endpoints use the flat {success}/{error} shapes their
// dashboard clients expect rather than the envelope.
func success(c *gin.Context, extra gin.H) {
	out := gin.H{"success": true}
	for k, v := range extra {
		out[k] = v
	}
	c.JSON(http.StatusOK, out)
}

func jsonError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
