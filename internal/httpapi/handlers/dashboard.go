package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/report"
)

// complaintListItem is the row shape shared by the three role dashboards.
func complaintListItem(c *models.Complaint) gin.H {
	name := c.EmployeeName
	if name == "" {
		name = c.User.Username
	}
	var technician string
	if c.Technician != nil {
		technician = c.Technician.Username
	}
	return gin.H{
		"id":            c.ID,
		"complaint_no":  c.ComplaintNo,
		"employee_name": name,
		"issue":         c.Issue,
		"status":        c.Status,
		"priority":      c.Priority,
		"created_at":    c.CreatedAt,
		"resolved_at":   c.ResolvedAt,
		"technician":    technician,
	}
}

func complaintList(cs []models.Complaint) []gin.H {
	out := make([]gin.H, 0, len(cs))
	for i := range cs {
		out = append(out, complaintListItem(&cs[i]))
	}
	return out
}

// AdminDashboard returns every complaint plus the aggregate report views.
func (h *Handler) AdminDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if actor.Role != models.RoleAdmin {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	complaints, err := h.Tickets.ListAll(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	stats, err := h.Tickets.Stats(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}

	var technicians []models.User
	if err := h.DB.Where("role = ?", models.RoleTechnician).Order("id ASC").Find(&technicians).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	techs := make([]gin.H, 0, len(technicians))
	for i := range technicians {
		t := &technicians[i]
		techs = append(techs, gin.H{"id": t.ID, "username": t.Username})
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints":       complaintList(complaints),
		"stats":            stats,
		"technicians":      techs,
		"department_stats": report.ByDepartment(complaints),
		"hardware_stats":   report.ByHardware(complaints),
		"predictions":      report.Predictions(complaints),
	})
}

// TechnicianDashboard returns the complaints assigned to the caller.
func (h *Handler) TechnicianDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if actor.Role != models.RoleTechnician {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	complaints, err := h.Tickets.ListByTechnician(c.Request.Context(), actor.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaintList(complaints)})
}

// EmployeeDashboard returns the caller's own complaints.
func (h *Handler) EmployeeDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if actor.Role != models.RoleEmployee {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	complaints, err := h.Tickets.ListByReporter(c.Request.Context(), actor.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaintList(complaints)})
}

// Stats exposes the aggregate counters on their own for polling widgets.
func (h *Handler) Stats(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	stats, err := h.Tickets.Stats(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}
	c.JSON(http.StatusOK, stats)
}
