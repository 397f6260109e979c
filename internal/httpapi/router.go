package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/common"
	"github.com/suPer8Hu/helpdesk/internal/httpapi/handlers"
	"github.com/suPer8Hu/helpdesk/internal/httpapi/middleware"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger(), middleware.Recovery(), middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 10404, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 10405, "method not allowed")
	})

	r.GET("/ping", h.Ping)
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)

	api := r.Group("/api", middleware.AuthRequired(h.Cfg.JWTSecret))
	{
		api.GET("/me", h.Me)

		api.POST("/chat", h.Chat)

		api.GET("/dashboard/admin", h.AdminDashboard)
		api.GET("/dashboard/technician", h.TechnicianDashboard)
		api.GET("/dashboard/employee", h.EmployeeDashboard)
		api.GET("/stats", h.Stats)

		api.POST("/complaints", h.CreateComplaint)
		api.GET("/complaints/:id", h.GetComplaint)
		api.POST("/complaints/:id/status", h.UpdateStatus)
		api.POST("/complaints/:id/priority", h.UpdatePriority)
		api.POST("/complaints/:id/assign", h.AssignTechnician)
		api.POST("/complaints/:id/comments", h.AddComment)
		api.DELETE("/complaints/:id", h.DeleteComplaint)

		api.POST("/users", h.AddUser)

		api.GET("/export/:format", h.Export)
	}

	return r
}
