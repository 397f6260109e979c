package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatReq struct {
	Message string `json:"message"`
}

// Chat runs one conversational turn. The wire shape is fixed:
// {response, requiresComplaint}, with 400 on malformed input and 500 when a
// turn fails internally (the engine clears the session in that case).
func (h *Handler) Chat(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"response":          "I apologize, but I couldn't understand your message. Please try again.",
			"requiresComplaint": false,
		})
		return
	}

	reply := h.Engine.Turn(c.Request.Context(), user, req.Message)
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"response":          reply.Response,
		"requiresComplaint": reply.RequiresComplaint,
	})
}
